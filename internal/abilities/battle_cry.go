package abilities

import (
	"fmt"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/internal/systems"
)

const KindBattleCry = "battle_cry"

// BattleCry - уникальный бафф атаки. Параметры: scope, bonus (float), ap_cost, turns.
// Бафф пишется под ID экземпляра, поэтому повторный клич обновляет его, а не суммирует.
type BattleCry struct {
	base
	bonus float64
	turns int

	applyKey     string
	applyKeySelf string
}

func checkBattleCry(params map[string]any) error {
	if _, err := paramScope(params); err != nil {
		return err
	}
	if _, err := paramFloat(params, "bonus"); err != nil {
		return err
	}
	if _, err := paramInt(params, "ap_cost"); err != nil {
		return err
	}
	_, err := paramInt(params, "turns")
	return err
}

func newBattleCry(id domain.EntityID, params map[string]any) (*BattleCry, error) {
	if err := checkBattleCry(params); err != nil {
		return nil, err
	}
	scope, _ := paramScope(params)
	bonus, _ := paramFloat(params, "bonus")
	cost, _ := paramInt(params, "ap_cost")
	turns, _ := paramInt(params, "turns")

	return &BattleCry{
		base: base{
			id:         id,
			kind:       KindBattleCry,
			scope:      scope,
			cost:       cost,
			key:        "abilities.battlecry",
			tooltipKey: "abilities.battlecry_tooltip",
			data:       map[string]any{"BONUS": fmt.Sprintf("%d%%", int(bonus*100)), "AP": cost},
			considerations: []Consideration{
				{Name: "danger", Score: TargetDanger, Weight: 0.3, NeedsNormalization: true, Proportionality: domain.Direct},
				{Name: "vulnerability", Score: TargetVulnerability, Weight: 0.2, Proportionality: domain.Inverse},
				{Name: "buffs", Score: CheckTargetBuffs(id), Weight: 0.5, Proportionality: domain.Direct},
			},
			maxWeight: 1.0,
		},
		bonus:        bonus,
		turns:        turns,
		applyKey:     "abilities.battlecry_message",
		applyKeySelf: "abilities.battlecry_message_self",
	}, nil
}

func (c *BattleCry) IsAvailable(w *domain.World, actorID, _ domain.EntityID) (bool, error) {
	return readyWithAP(w, actorID, c.cost)
}

func (c *BattleCry) Execute(w *domain.World, actorID, targetID domain.EntityID) ([]events.Event, error) {
	if err := systems.ConsumeAP(w, actorID, c.cost, c.key); err != nil {
		return nil, err
	}
	if err := systems.ApplyBuff(w, actorID, targetID, c.id, c.key, domain.StatAttack, c.bonus, c.turns); err != nil {
		return nil, err
	}

	views, err := systems.WrapEntities(w, []domain.EntityID{actorID})
	if err != nil {
		return nil, err
	}

	key := c.applyKey
	if actorID == targetID {
		key = c.applyKeySelf
	}
	return []events.Event{
		events.StatsChange{Entities: views},
		events.Log(key, map[string]any{
			"ENTITY_NAME": systems.NameOf(w, actorID),
			"TARGET_NAME": systems.NameOf(w, targetID),
			"BONUS":       int(c.bonus * 100),
		}),
	}, nil
}

func (c *BattleCry) ToMap() map[string]any {
	return map[string]any{
		"id":      KindBattleCry,
		"scope":   c.scope.String(),
		"bonus":   c.bonus,
		"ap_cost": c.cost,
		"turns":   c.turns,
	}
}
