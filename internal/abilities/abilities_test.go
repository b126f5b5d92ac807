package abilities

import (
	"errors"
	"slices"
	"testing"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
)

func TestBasicAttackExecute(t *testing.T) {
	w := domain.NewWorld()
	r := newTestRegistry(t, w)
	player := fighter(t, w, true, 100)
	enemy := fighter(t, w, false, 100)

	attack, ok := r.Shared(KindBasicAttack)
	if !ok {
		t.Fatal("basic attack was not created")
	}

	evs, err := attack.Execute(w, player, enemy)
	must(t, err)

	enemyStats, err := domain.Require[*domain.Stats](w, enemy)
	must(t, err)
	if enemyStats.Health < 88 || enemyStats.Health > 92 {
		t.Errorf("health after hit = %d, want within [88, 92]", enemyStats.Health)
	}
	playerStats, err := domain.Require[*domain.Stats](w, player)
	must(t, err)
	if playerStats.AP != 2 {
		t.Errorf("AP = %d, want 2 (basic attack grants 1)", playerStats.AP)
	}

	if _, isStats := evs[0].(events.StatsChange); !isStats {
		t.Fatalf("first event = %T, want StatsChange", evs[0])
	}
	want := []string{"unloc.player_name_attack", domain.MsgHealthReminder}
	if got := logKeys(evs); !slices.Equal(got, want) {
		t.Errorf("log keys = %v, want %v", got, want)
	}
}

func TestBasicAttackMissesOnDeadTarget(t *testing.T) {
	w := domain.NewWorld()
	r := newTestRegistry(t, w)
	player := fighter(t, w, true, 100)
	enemy := fighter(t, w, false, 10)

	attack, _ := r.Shared(KindBasicAttack)
	ok, err := attack.IsAvailable(w, player, enemy)
	must(t, err)
	if !ok {
		t.Fatal("attack should be available on a live enemy")
	}

	must(t, domain.Remove[domain.IsAlive](w, enemy))
	ok, err = attack.IsAvailable(w, player, enemy)
	must(t, err)
	if ok {
		t.Error("attack must not be available on a dead enemy")
	}
}

func TestPlayerHealExecute(t *testing.T) {
	w := domain.NewWorld()
	r := newTestRegistry(t, w)
	player := fighter(t, w, true, 100)

	heal, err := r.FromMap(500, map[string]any{"id": KindPlayerHeal, "scope": "self", "value": 20, "ap_cost": 1})
	must(t, err)

	stats, err := domain.Require[*domain.Stats](w, player)
	must(t, err)

	// Полное здоровье: лечение без эффекта, но AP тратится
	evs, err := heal.Execute(w, player, player)
	must(t, err)
	if got := logKeys(evs); !slices.Equal(got, []string{"abilities.player_useless_heal_message"}) {
		t.Errorf("useless heal keys = %v", got)
	}
	if stats.AP != 0 {
		t.Errorf("AP = %d, want 0", stats.AP)
	}

	ok, err := heal.IsAvailable(w, player, domain.NoEntity)
	must(t, err)
	if ok {
		t.Error("heal must be unavailable without AP")
	}

	stats.AP = 1
	stats.Health = 50
	evs, err = heal.Execute(w, player, player)
	must(t, err)
	if stats.Health != 70 {
		t.Errorf("health = %d, want 70", stats.Health)
	}
	want := []string{"abilities.player_self_heal_message", domain.MsgHealthReminder}
	if got := logKeys(evs); !slices.Equal(got, want) {
		t.Errorf("self heal keys = %v, want %v", got, want)
	}
}

func TestBattleCryRefreshesOwnBuff(t *testing.T) {
	w := domain.NewWorld()
	r := newTestRegistry(t, w)
	player := fighter(t, w, true, 100)

	comp, err := r.Build(w, []Spec{{Name: KindBattleCry, Params: map[string]any{
		"scope": "SELF", "bonus": 0.5, "ap_cost": 0, "turns": 2,
	}}})
	must(t, err)
	cry := comp.Ordered()[0]

	if cry.Data()["BONUS"] != "50%" {
		t.Errorf("BONUS = %v, want 50%%", cry.Data()["BONUS"])
	}

	_, err = cry.Execute(w, player, player)
	must(t, err)
	_, err = cry.Execute(w, player, player)
	must(t, err)

	buffs, err := domain.Require[*domain.Buffs](w, player)
	must(t, err)
	if len(buffs.ByAbility) != 1 {
		t.Fatalf("buffs = %d, want 1", len(buffs.ByAbility))
	}
	buff, ok := buffs.ByAbility[cry.ID()]
	if !ok || buff.Bonus != 0.5 || buff.TurnsLeft != 2 {
		t.Errorf("buff = %+v", buff)
	}
}

func TestRegistryCheckArgs(t *testing.T) {
	r := NewRegistry(nil)

	tests := []struct {
		name    string
		kind    string
		params  map[string]any
		wantErr bool
	}{
		{"Basic attack needs nothing", KindBasicAttack, nil, false},
		{"Heal ok", KindPlayerHeal, map[string]any{"scope": "allies", "value": 20, "ap_cost": 1}, false},
		{"Heal missing value", KindPlayerHeal, map[string]any{"scope": "allies", "ap_cost": 1}, true},
		{"Heal bad scope", KindPlayerHeal, map[string]any{"scope": "everyone", "value": 20, "ap_cost": 1}, true},
		{"Heal string cost", KindPlayerHeal, map[string]any{"scope": "self", "value": 20, "ap_cost": "1"}, true},
		{"Battle cry ok", KindBattleCry, map[string]any{"scope": "allies", "bonus": 0.3, "ap_cost": 2, "turns": 2}, false},
		{"Battle cry int bonus", KindBattleCry, map[string]any{"scope": "allies", "bonus": 1, "ap_cost": 2, "turns": 2}, true},
		{"Battle cry no turns", KindBattleCry, map[string]any{"scope": "allies", "bonus": 0.3, "ap_cost": 2}, true},
		{"Unknown ability", "fireball", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.CheckArgs(tt.kind, tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("error %v does not wrap ErrInvalidArgs", err)
			}
		})
	}
}

func TestRegistrySharedAndUniqueIDs(t *testing.T) {
	w := domain.NewWorld()
	r := newTestRegistry(t, w)

	specs := []Spec{
		{Name: KindBasicAttack},
		{Name: KindPlayerHeal, Params: map[string]any{"scope": "allies", "value": 20, "ap_cost": 1}},
	}
	first, err := r.Build(w, specs)
	must(t, err)
	second, err := r.Build(w, specs)
	must(t, err)

	shared, _ := r.Shared(KindBasicAttack)
	if first.ByID[shared.ID()] != second.ByID[shared.ID()] {
		t.Error("basic attack must be the same instance for every owner")
	}

	uniqueIDs := map[domain.EntityID]bool{}
	for _, comp := range []*Component{first, second} {
		for _, ab := range comp.Ordered() {
			if ab.Kind() == KindPlayerHeal {
				uniqueIDs[ab.ID()] = true
			}
		}
	}
	if len(uniqueIDs) != 2 {
		t.Errorf("expected 2 distinct heal ids, got %v", uniqueIDs)
	}
}

func TestRegistryRoundTripThroughMap(t *testing.T) {
	w := domain.NewWorld()
	r := newTestRegistry(t, w)

	comp, err := r.Build(w, []Spec{{Name: KindBattleCry, Params: map[string]any{
		"scope": "allies", "bonus": 0.25, "ap_cost": 2, "turns": 3,
	}}})
	must(t, err)
	orig := comp.Ordered()[0]

	restored, err := r.FromMap(orig.ID(), orig.ToMap())
	must(t, err)
	if restored.Scope() != orig.Scope() || restored.Cost() != orig.Cost() || restored.ID() != orig.ID() {
		t.Errorf("restored %+v differs from %+v", restored.ToMap(), orig.ToMap())
	}
}
