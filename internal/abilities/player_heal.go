package abilities

import (
	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/internal/systems"
)

const KindPlayerHeal = "player_heal"

// PlayerHeal - уникальная способность лечения. Параметры: scope, value, ap_cost.
type PlayerHeal struct {
	base
	value int

	healKey        string
	selfHealKey    string
	uselessHealKey string
}

func checkPlayerHeal(params map[string]any) error {
	if _, err := paramScope(params); err != nil {
		return err
	}
	if _, err := paramInt(params, "value"); err != nil {
		return err
	}
	_, err := paramInt(params, "ap_cost")
	return err
}

func newPlayerHeal(id domain.EntityID, params map[string]any) (*PlayerHeal, error) {
	if err := checkPlayerHeal(params); err != nil {
		return nil, err
	}
	scope, _ := paramScope(params)
	value, _ := paramInt(params, "value")
	cost, _ := paramInt(params, "ap_cost")

	return &PlayerHeal{
		base: base{
			id:         id,
			kind:       KindPlayerHeal,
			scope:      scope,
			cost:       cost,
			key:        "abilities.player_heal",
			tooltipKey: "abilities.player_heal_tooltip",
			data:       map[string]any{"HEALTH": value},
			considerations: []Consideration{
				{Name: "danger", Score: TargetDanger, Weight: 0.2, NeedsNormalization: true, Proportionality: domain.Direct},
				{Name: "vulnerability", Score: TargetVulnerability, Weight: 0.8, Proportionality: domain.Inverse},
			},
			maxWeight: 1.0,
		},
		value:          value,
		healKey:        "abilities.player_heal_message",
		selfHealKey:    "abilities.player_self_heal_message",
		uselessHealKey: "abilities.player_useless_heal_message",
	}, nil
}

func (h *PlayerHeal) IsAvailable(w *domain.World, actorID, _ domain.EntityID) (bool, error) {
	return readyWithAP(w, actorID, h.cost)
}

func (h *PlayerHeal) Execute(w *domain.World, actorID, targetID domain.EntityID) ([]events.Event, error) {
	if err := systems.ConsumeAP(w, actorID, h.cost, h.key); err != nil {
		return nil, err
	}
	healed, err := systems.ProcessHeal(w, actorID, targetID, h.value)
	if err != nil {
		return nil, err
	}

	selfHeal := actorID == targetID
	changed := []domain.EntityID{actorID}
	if !selfHeal {
		changed = append(changed, targetID)
	}
	views, err := systems.WrapEntities(w, changed)
	if err != nil {
		return nil, err
	}

	names := map[string]any{
		"ENTITY_NAME": systems.NameOf(w, actorID),
		"TARGET_NAME": systems.NameOf(w, targetID),
	}
	log := []events.Event{events.StatsChange{Entities: views}}
	if healed == 0 {
		return append(log, events.Log(h.uselessHealKey, names)), nil
	}

	targetStats, err := domain.Require[*domain.Stats](w, targetID)
	if err != nil {
		return nil, err
	}
	key := h.healKey
	if selfHeal {
		key = h.selfHealKey
	}
	names["HEALTH"] = healed
	log = append(log,
		events.Log(key, names),
		events.Log(domain.MsgHealthReminder, map[string]any{
			"NAME":   systems.NameOf(w, targetID),
			"HEALTH": targetStats.Health,
		}),
	)
	return log, nil
}

func (h *PlayerHeal) ToMap() map[string]any {
	return map[string]any{
		"id":      KindPlayerHeal,
		"scope":   h.scope.String(),
		"value":   h.value,
		"ap_cost": h.cost,
	}
}
