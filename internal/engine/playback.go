package engine

import (
	"context"
	"fmt"

	"skirmish-server/internal/blueprint"
	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Playback повторяет записанный бой: тот же сид, те же действия игрока в том же порядке.
// Каждое записанное действие отдается на очередном StartPlayerTurn.
// Если записи кончились раньше боя, бой отменяется и возвращается ошибка.
func Playback(ctx context.Context, catalog *blueprint.Catalog, cfg Config, session domain.ReplaySession, sink Sink) (domain.BattleResult, error) {
	cfg = cfg.Instant()
	cfg.Seed = session.Seed
	if session.EnemyCount > 0 {
		cfg.EnemyCount = session.EnemyCount
	}

	log := logger.For("playback").WithFields(logrus.Fields{
		"seed":    session.Seed,
		"actions": len(session.Actions),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var game *GameEngine
	next := 0
	exhausted := false

	feed := func(ev events.Event) {
		if sink != nil {
			sink(ev)
		}
		if _, ok := ev.(events.StartPlayerTurn); !ok {
			return
		}
		if next >= len(session.Actions) {
			exhausted = true
			cancel()
			return
		}
		rec := session.Actions[next]
		next++
		act := events.PlayerAction{AbilityID: rec.AbilityID, EntityID: rec.EntityID, TargetID: rec.TargetID}
		if err := game.SubmitAction(act); err != nil {
			log.WithError(err).WithField("turn", rec.Turn).Warn("Recorded action was not accepted")
		}
	}

	game = NewGameEngine("playback", cfg, catalog, feed)
	if err := game.InitializeWorld(); err != nil {
		return 0, err
	}
	if _, err := game.CreatePlayer(session.Class, session.PlayerName); err != nil {
		return 0, err
	}
	if err := game.StartGame(ctx); err != nil {
		return 0, err
	}
	<-game.Done()

	result, err := game.Result()
	if exhausted {
		return 0, fmt.Errorf("replay ended after %d actions before the battle finished", len(session.Actions))
	}
	if err != nil {
		return 0, err
	}
	log.WithField("result", result).Info("Playback finished")
	return result, nil
}
