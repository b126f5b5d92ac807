package systems

import (
	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	pendingDeath = domain.TypeOf[domain.PendingDeath]()
	isDead       = domain.TypeOf[domain.IsDead]()
)

// ProcessDeaths переводит PendingDeath в IsDead и снимает IsAlive.
// Возвращает умерших по возрастанию ID.
func ProcessDeaths(w *domain.World) ([]domain.EntityID, error) {
	dying := w.With(pendingDeath)
	for _, id := range dying {
		if err := domain.Remove[domain.PendingDeath](w, id); err != nil {
			return nil, err
		}
		if err := domain.Remove[domain.IsAlive](w, id); err != nil {
			return nil, err
		}
		if err := domain.Add(w, id, domain.IsDead{}); err != nil {
			return nil, err
		}
		logger.For("battle_systems").WithField("entity_id", id).Info("Entity died")
	}
	return dying, nil
}

// ClearEnemyEntities удаляет из мира всех мертвых, кроме игроков.
func ClearEnemyEntities(w *domain.World) error {
	removed := 0
	for _, id := range w.With(isDead) {
		if domain.HasComponent[domain.IsPlayer](w, id) {
			continue
		}
		if err := w.DeleteEntity(id); err != nil {
			return err
		}
		removed++
	}
	if removed > 0 {
		logger.For("battle_systems").WithFields(logrus.Fields{
			"removed": removed,
		}).Debug("Dead enemies cleared")
	}
	return nil
}
