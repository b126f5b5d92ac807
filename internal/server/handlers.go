package server

import (
	"context"
	"fmt"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/engine"
	"skirmish-server/internal/events"
	"skirmish-server/pkg/api"

	"github.com/sirupsen/logrus"
)

func handleStart(c *Client, p api.StartPayload) error {
	class, err := domain.ParsePlayerClass(p.Class)
	if err != nil {
		return err
	}
	if _, ok := c.server.Service.Catalog.Player(class); !ok {
		return fmt.Errorf("class %s is not available", class)
	}

	// Прошлый бой этого клиента должен быть завершен
	if c.game != nil {
		select {
		case <-c.game.Done():
		default:
			return engine.ErrBattleRunning
		}
		c.dropSession()
	}

	// 1. Новая сессия. ID известен только после Create, sink его дождется:
	// события начинаются лишь после StartGame.
	var sessionID string
	var game *engine.GameEngine
	game, err = c.server.Service.Create(p.Seed, func(ev events.Event) {
		// Реплей пишется до BATTLE_END: клиент, получив конец боя, уже видит файл
		if end, ok := ev.(events.BattleEnd); ok && !end.Aborted {
			c.server.saveReplay(game)
		}
		c.server.Hub.Publish(sessionID, ev)
	})
	if err != nil {
		return err
	}
	sessionID = game.ID
	c.game = game

	// 2. Подписка на события сессии
	go c.forward(c.server.Hub.Register(sessionID))

	// 3. Персонаж и бой
	playerID, err := game.CreatePlayer(class, p.Name)
	if err != nil {
		return err
	}
	c.send(api.ServerMessage{
		Type:      api.TypeSession,
		SessionID: sessionID,
		Payload: api.SessionPayload{
			PlayerID: int64(playerID),
			Seed:     game.Replay().Seed,
			Class:    class.String(),
		},
	})
	if err := game.StartGame(context.Background()); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"player":     p.Name,
		"class":      class,
	}).Info("Battle started")
	return nil
}

func handleAction(c *Client, p api.ActionPayload) error {
	if c.game == nil {
		return engine.ErrNoBattle
	}
	return c.game.SubmitAction(events.PlayerAction{
		AbilityID: domain.EntityID(p.AbilityID),
		EntityID:  domain.EntityID(p.EntityID),
		TargetID:  domain.EntityID(p.TargetID),
	})
}

func handleStop(c *Client) error {
	if c.game == nil {
		return engine.ErrNoBattle
	}
	c.game.StopGame()
	c.log.WithField("session_id", c.game.ID).Info("Battle stopped by client")
	return nil
}
