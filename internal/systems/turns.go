package systems

import (
	"fmt"

	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var schedulable = []domain.ComponentType{
	domain.TypeOf[domain.InBattle](),
	domain.TypeOf[domain.IsAlive](),
	domain.TypeOf[*domain.Speed](),
}

// SubscribeForFight ставит сущности в очередь ходов: base = ActionValueScale / speed.
func SubscribeForFight(w *domain.World, ids ...domain.EntityID) error {
	for _, id := range ids {
		stats, err := domain.Require[*domain.Stats](w, id)
		if err != nil {
			return err
		}
		if stats.Speed <= 0 {
			return fmt.Errorf("speed %d for entity %s: %w", stats.Speed, id, domain.ErrInvalidSpeed)
		}

		actionValue := domain.ActionValueScale / stats.Speed
		if err := domain.Add(w, id, &domain.Speed{BaseActionValue: actionValue, ActionValue: actionValue}); err != nil {
			return err
		}
		if err := domain.Add(w, id, domain.InBattle{}); err != nil {
			return err
		}

		logger.For("battle_systems").WithFields(logrus.Fields{
			"entity_id":    id,
			"speed":        stats.Speed,
			"action_value": actionValue,
		}).Debug("Entity subscribed for fight")
	}
	return nil
}

// StartTurn выбирает того, кто ходит: минимальный ActionValue среди живых участников боя.
// При равенстве ходит сущность с меньшим ID.
// Возвращает (актор, потраченное значение) - их нужно передать в EndTurn.
func StartTurn(w *domain.World) (domain.EntityID, int, error) {
	ids := w.With(schedulable...)
	if len(ids) == 0 {
		return domain.NoEntity, 0, fmt.Errorf("start turn: %w", domain.ErrNoActors)
	}

	bestID := domain.NoEntity
	bestValue := 0
	for _, id := range ids {
		speed, err := domain.Require[*domain.Speed](w, id)
		if err != nil {
			return domain.NoEntity, 0, err
		}
		if bestID.IsNone() || speed.ActionValue < bestValue {
			bestID = id
			bestValue = speed.ActionValue
		}
	}
	return bestID, bestValue, nil
}

// EndTurn сбрасывает актора на базовое значение, а всем остальным
// уменьшает ActionValue на потраченное (не ниже нуля).
func EndTurn(w *domain.World, actorID domain.EntityID, actionValue int) error {
	ids := w.With(schedulable...)
	if len(ids) == 0 {
		return fmt.Errorf("end turn: %w", domain.ErrNoActors)
	}

	for _, id := range ids {
		speed, err := domain.Require[*domain.Speed](w, id)
		if err != nil {
			return err
		}
		if id == actorID {
			speed.ActionValue = speed.BaseActionValue
			continue
		}
		speed.ActionValue = max(0, speed.ActionValue-actionValue)
	}
	return nil
}
