package systems

import (
	"slices"

	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ApplyBuff вставляет или заменяет бафф на цели. Ключ - ID экземпляра способности,
// поэтому повторное наложение обновляет бафф, а не складывает его.
func ApplyBuff(w *domain.World, sourceID, targetID, abilityID domain.EntityID, key string, stat domain.Stat, bonus float64, turns int) error {
	buffs, ok, err := domain.Get[*domain.Buffs](w, targetID)
	if err != nil {
		return err
	}
	if !ok {
		buffs = domain.NewBuffs()
		if err := domain.Add(w, targetID, buffs); err != nil {
			return err
		}
	}

	buffs.ByAbility[abilityID] = &domain.Buff{Key: key, TurnsLeft: turns, Stat: stat, Bonus: bonus}

	logger.For("battle_systems").WithFields(logrus.Fields{
		"source_id":  sourceID,
		"target_id":  targetID,
		"ability_id": abilityID,
		"stat":       stat,
		"bonus":      bonus,
		"turns":      turns,
	}).Debug("Buff applied")
	return nil
}

// UpdateBuffs вызывается раз в ход для актора до его действия.
// Удаляет истекшие баффы (возвращает их ключи для лога), остальным уменьшает счетчик.
func UpdateBuffs(w *domain.World, entityID domain.EntityID) ([]string, error) {
	buffs, ok, err := domain.Get[*domain.Buffs](w, entityID)
	if err != nil || !ok {
		return nil, err
	}

	var expired []domain.EntityID
	for abilityID, buff := range buffs.ByAbility {
		if buff.TurnsLeft <= 0 {
			expired = append(expired, abilityID)
		}
	}
	slices.Sort(expired)

	endedKeys := make([]string, 0, len(expired))
	for _, abilityID := range expired {
		endedKeys = append(endedKeys, buffs.ByAbility[abilityID].Key)
		delete(buffs.ByAbility, abilityID)
	}

	for _, buff := range buffs.ByAbility {
		buff.TurnsLeft = max(0, buff.TurnsLeft-1)
	}
	return endedKeys, nil
}
