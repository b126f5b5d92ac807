package abilities

import (
	"math/rand"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/internal/systems"
)

const KindBasicAttack = "basic_attack"

// BasicAttack - общая (shared) атака: один экземпляр на всю сессию.
// Урон случаен в [attack-offset, attack+offset], каждое использование дает 1 AP.
type BasicAttack struct {
	base
	rng *rand.Rand
}

func newBasicAttack(id domain.EntityID, rng *rand.Rand) *BasicAttack {
	return &BasicAttack{
		base: base{
			id:         id,
			kind:       KindBasicAttack,
			scope:      domain.ScopeEnemies,
			cost:       -1,
			key:        "abilities.basic_attack",
			tooltipKey: "abilities.basic_attack_tooltip",
			data:       map[string]any{"AP": -1},
			considerations: []Consideration{
				{Name: "vulnerability", Score: TargetVulnerability, Weight: 0.5, Proportionality: domain.Inverse},
				{Name: "danger", Score: TargetDanger, Weight: 0.5, NeedsNormalization: true, Proportionality: domain.Direct},
			},
			maxWeight: 0.7,
		},
		rng: rng,
	}
}

func (a *BasicAttack) IsAvailable(w *domain.World, actorID, targetID domain.EntityID) (bool, error) {
	if !w.Exists(actorID) {
		return false, domainMissing(actorID)
	}
	if !w.Has(actorID, actorReady...) {
		return false, nil
	}
	if !targetID.IsNone() && !w.Has(targetID, actorReady...) {
		return false, nil
	}
	return true, nil
}

func (a *BasicAttack) Execute(w *domain.World, actorID, targetID domain.EntityID) ([]events.Event, error) {
	stats, err := domain.Require[*domain.Stats](w, actorID)
	if err != nil {
		return nil, err
	}
	damage := stats.Attack - stats.AttackOffset + a.rng.Intn(2*stats.AttackOffset+1)

	dealt, err := systems.ProcessAttack(w, actorID, targetID, damage)
	if err != nil {
		return nil, err
	}
	if err := systems.ConsumeAP(w, actorID, a.cost, a.key); err != nil {
		return nil, err
	}

	loc, err := domain.Require[*domain.Localization](w, actorID)
	if err != nil {
		return nil, err
	}
	views, err := systems.WrapEntities(w, []domain.EntityID{actorID, targetID})
	if err != nil {
		return nil, err
	}

	log := []events.Event{events.StatsChange{Entities: views}}
	if dealt == 0 {
		return append(log, events.Log(loc.MissKey, nil)), nil
	}

	targetStats, err := domain.Require[*domain.Stats](w, targetID)
	if err != nil {
		return nil, err
	}
	log = append(log,
		events.Log(loc.AttackKey, map[string]any{"DAMAGE": dealt}),
		events.Log(domain.MsgHealthReminder, map[string]any{
			"NAME":   systems.NameOf(w, targetID),
			"HEALTH": targetStats.Health,
		}),
	)
	return log, nil
}

func (a *BasicAttack) ToMap() map[string]any {
	return map[string]any{"id": KindBasicAttack}
}
