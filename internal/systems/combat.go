package systems

import (
	"fmt"

	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ProcessAttack масштабирует урон баффами атаки атакующего и передает его в ProcessDamage.
// Возвращает фактически нанесенный урон.
func ProcessAttack(w *domain.World, attackerID, defenderID domain.EntityID, amount int) (int, error) {
	multiplier := 1.0
	buffs, ok, err := domain.Get[*domain.Buffs](w, attackerID)
	if err != nil {
		return 0, err
	}
	if ok {
		for _, buff := range buffs.ByAbility {
			if buff.Stat == domain.StatAttack {
				multiplier += buff.Bonus
			}
		}
	}

	finalAmount := int(float64(amount) * multiplier)

	logger.For("battle_systems").WithFields(logrus.Fields{
		"attacker_id": attackerID,
		"target_id":   defenderID,
		"base_damage": amount,
		"multiplier":  multiplier,
	}).Debug("Attack scaled by buffs")

	return ProcessDamage(w, defenderID, attackerID, finalAmount)
}

// ProcessDamage снимает здоровье цели (не ниже нуля). Неположительный урон - no-op.
// Если здоровье кончилось, цель помечается PendingDeath: удаление отложено,
// чтобы события текущего хода еще могли на нее ссылаться.
func ProcessDamage(w *domain.World, targetID, sourceID domain.EntityID, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}
	stats, err := domain.Require[*domain.Stats](w, targetID)
	if err != nil {
		return 0, err
	}

	hpBefore := stats.Health
	taken := stats.TakeDamage(amount)

	if stats.IsDepleted() && !domain.HasComponent[domain.IsDead](w, targetID) {
		if err := domain.Add(w, targetID, domain.PendingDeath{}); err != nil {
			return taken, err
		}
	}

	logger.For("battle_systems").WithFields(logrus.Fields{
		"source_id":   sourceID,
		"target_id":   targetID,
		"amount":      amount,
		"taken":       taken,
		"hp_before":   hpBefore,
		"hp_after":    stats.Health,
		"target_died": stats.IsDepleted(),
	}).Debug("Damage resolved")

	return taken, nil
}

// ProcessHeal лечит не больше недостающего здоровья.
// 0 означает "без эффекта" (цель и так полностью здорова).
func ProcessHeal(w *domain.World, sourceID, targetID domain.EntityID, amount int) (int, error) {
	stats, err := domain.Require[*domain.Stats](w, targetID)
	if err != nil {
		return 0, err
	}
	restored := stats.Heal(amount)

	logger.For("battle_systems").WithFields(logrus.Fields{
		"source_id": sourceID,
		"target_id": targetID,
		"amount":    amount,
		"restored":  restored,
	}).Debug("Heal resolved")

	return restored, nil
}

// ConsumeAP списывает стоимость способности. Отрицательная стоимость дает AP (до максимума).
// Нехватка AP здесь - ошибка вызывающего: доступность должна была быть проверена раньше.
func ConsumeAP(w *domain.World, entityID domain.EntityID, amount int, abilityKey string) error {
	stats, err := domain.Require[*domain.Stats](w, entityID)
	if err != nil {
		return err
	}
	if !stats.SpendAP(amount) {
		return fmt.Errorf("%s passed ap check for entity %s (have %d, need %d): %w",
			abilityKey, entityID, stats.AP, amount, domain.ErrNotEnoughAP)
	}
	return nil
}
