package server

import (
	"net/http"
	"time"

	"skirmish-server/internal/engine"
	"skirmish-server/pkg/api"
	"skirmish-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией боя.
// Одно соединение управляет не более чем одной сессией за раз.
type Client struct {
	server *Server
	Conn   *websocket.Conn
	Send   chan api.ServerMessage
	done   chan struct{} // Закрывается, когда readPump завершился
	log    *logrus.Entry

	// Трогаются только из readPump
	game *engine.GameEngine
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		server: s,
		Conn:   conn,
		Send:   make(chan api.ServerMessage, sendBuffer),
		done:   make(chan struct{}),
		log:    logger.For("ws_client").WithField("remote", conn.RemoteAddr().String()),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		close(c.done)
		// Бой без клиента никому не нужен: останавливаем и удаляем сессию
		c.dropSession()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log.Info("Client connected")

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			return
		}
		c.dispatch(cmd)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.log.WithError(err).Debug("write close message failed")
			}
			return
		}
	}
}

// forward пересылает сообщения сессии из Hub в writePump, пока Hub не закроет канал.
func (c *Client) forward(updates <-chan api.ServerMessage) {
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
			return
		}
	}
}

// send кладет служебное сообщение в очередь записи, не блокируя readPump.
func (c *Client) send(msg api.ServerMessage) {
	select {
	case c.Send <- msg:
	default:
		c.log.WithField("type", msg.Type).Warn("Send buffer full, message dropped")
	}
}

func (c *Client) replyError(action string, err error) {
	c.log.WithError(err).WithField("action", action).Warn("Command rejected")
	msg := api.ServerMessage{
		Type:    api.TypeError,
		Payload: api.ErrorPayload{Action: action, Message: err.Error()},
	}
	if c.game != nil {
		msg.SessionID = c.game.ID
	}
	c.send(msg)
}

// dropSession останавливает текущий бой клиента и отписывается от его событий.
func (c *Client) dropSession() {
	if c.game == nil {
		return
	}
	id := c.game.ID
	c.server.Service.Remove(id)
	c.server.Hub.Unregister(id)
	c.game = nil
}
