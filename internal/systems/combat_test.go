package systems

import (
	"errors"
	"testing"

	"skirmish-server/internal/domain"
)

func TestProcessDamage(t *testing.T) {
	tests := []struct {
		name      string
		health    int
		amount    int
		wantTaken int
		wantHP    int
		wantDeath bool
	}{
		{"Regular hit", 30, 12, 12, 18, false},
		{"Exact kill", 30, 30, 30, 0, true},
		{"Overkill is clamped", 10, 25, 10, 0, true},
		{"Zero damage", 30, 0, 0, 30, false},
		{"Negative damage", 30, -5, 0, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := domain.NewWorld()
			attacker := spawn(t, w, true, 100, 100)
			target := spawn(t, w, false, tt.health, 100)

			taken, err := ProcessDamage(w, target, attacker, tt.amount)
			must(t, err)

			if taken != tt.wantTaken {
				t.Errorf("taken = %d, want %d", taken, tt.wantTaken)
			}
			if hp := statsOf(t, w, target).Health; hp != tt.wantHP {
				t.Errorf("health = %d, want %d", hp, tt.wantHP)
			}
			if got := domain.HasComponent[domain.PendingDeath](w, target); got != tt.wantDeath {
				t.Errorf("PendingDeath = %v, want %v", got, tt.wantDeath)
			}
		})
	}
}

func TestProcessAttackAppliesAttackBuffs(t *testing.T) {
	w := domain.NewWorld()
	attacker := spawn(t, w, true, 100, 100)
	target := spawn(t, w, false, 100, 100)

	must(t, ApplyBuff(w, attacker, attacker, 50, "abilities.battlecry", domain.StatAttack, 0.5, 2))
	// Бафф скорости не влияет на урон
	must(t, ApplyBuff(w, attacker, attacker, 51, "abilities.haste", domain.StatSpeed, 1.0, 2))

	taken, err := ProcessAttack(w, attacker, target, 11)
	must(t, err)

	// 11 * 1.5 = 16.5 -> 16
	if taken != 16 {
		t.Errorf("taken = %d, want 16", taken)
	}
}

func TestProcessAttackWithoutBuffs(t *testing.T) {
	w := domain.NewWorld()
	attacker := spawn(t, w, false, 100, 100)
	target := spawn(t, w, true, 100, 100)

	taken, err := ProcessAttack(w, attacker, target, 7)
	must(t, err)
	if taken != 7 {
		t.Errorf("taken = %d, want 7", taken)
	}
}

func TestProcessHeal(t *testing.T) {
	w := domain.NewWorld()
	player := spawn(t, w, true, 100, 100)
	stats := statsOf(t, w, player)

	stats.Health = 70
	restored, err := ProcessHeal(w, player, player, 20)
	must(t, err)
	if restored != 20 || stats.Health != 90 {
		t.Errorf("heal 20 from 70: restored %d, health %d", restored, stats.Health)
	}

	restored, err = ProcessHeal(w, player, player, 20)
	must(t, err)
	if restored != 10 || stats.Health != 100 {
		t.Errorf("heal 20 from 90: restored %d, health %d", restored, stats.Health)
	}

	restored, err = ProcessHeal(w, player, player, 20)
	must(t, err)
	if restored != 0 {
		t.Errorf("heal at full health restored %d, want 0", restored)
	}
}

func TestConsumeAP(t *testing.T) {
	w := domain.NewWorld()
	id := spawn(t, w, true, 100, 100)
	stats := statsOf(t, w, id)

	// Отрицательная стоимость начисляет AP, но не выше максимума
	must(t, ConsumeAP(w, id, -1, "basic_attack"))
	must(t, ConsumeAP(w, id, -1, "basic_attack"))
	must(t, ConsumeAP(w, id, -1, "basic_attack"))
	if stats.AP != 3 {
		t.Fatalf("AP = %d, want 3 (capped)", stats.AP)
	}

	must(t, ConsumeAP(w, id, 2, "battle_cry"))
	if stats.AP != 1 {
		t.Fatalf("AP = %d, want 1", stats.AP)
	}

	err := ConsumeAP(w, id, 2, "battle_cry")
	if !errors.Is(err, domain.ErrNotEnoughAP) {
		t.Fatalf("expected ErrNotEnoughAP, got %v", err)
	}
	if stats.AP != 1 {
		t.Errorf("failed spend changed AP to %d", stats.AP)
	}
}

func TestCombatMissingStats(t *testing.T) {
	w := domain.NewWorld()
	id := w.CreateEntity()

	if _, err := ProcessDamage(w, id, id, 5); !errors.Is(err, domain.ErrMissingComponent) {
		t.Errorf("ProcessDamage: expected ErrMissingComponent, got %v", err)
	}
	if _, err := ProcessHeal(w, id, id, 5); !errors.Is(err, domain.ErrMissingComponent) {
		t.Errorf("ProcessHeal: expected ErrMissingComponent, got %v", err)
	}
	if err := ConsumeAP(w, 999, 1, "x"); !errors.Is(err, domain.ErrNoSuchEntity) {
		t.Errorf("ConsumeAP: expected ErrNoSuchEntity, got %v", err)
	}
}
