package network

import (
	"sync"

	"skirmish-server/internal/events"
	"skirmish-server/pkg/api"
	"skirmish-server/pkg/logger"
)

// SubscriberBuffer — емкость личного канала подписчика.
// Бой за один ход выдает десятки событий, клиент с паузами успевает их забрать.
const SubscriberBuffer = 256

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.ServerMessage
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
	}
}

// Register создает личный канал для сессии
func (b *Broadcaster) Register(sessionID string) <-chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, SubscriberBuffer)
	b.subscribers[sessionID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
	}
}

// SendTo отправляет сообщение конкретной сессии (Unicast).
// Возвращает false, если подписчика нет или его канал переполнен.
func (b *Broadcaster) SendTo(sessionID string, msg api.ServerMessage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[sessionID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		logger.For("hub").WithField("session_id", sessionID).Warn("Channel full, message dropped")
		return false
	}
}

// Publish упаковывает событие боя в сообщение и отправляет сессии.
// Тип сообщения — имя события.
func (b *Broadcaster) Publish(sessionID string, ev events.Event) bool {
	return b.SendTo(sessionID, api.ServerMessage{
		Type:      ev.Name(),
		SessionID: sessionID,
		Payload:   ev,
	})
}

// HasSubscriber проверяет, слушает ли кто-то сессию
func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
