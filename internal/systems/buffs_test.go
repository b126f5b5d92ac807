package systems

import (
	"slices"
	"testing"

	"skirmish-server/internal/domain"
)

// Счетчик сначала проверяется, потом уменьшается: бафф на 1 ход живет еще один
// вызов UpdateBuffs и снимается на втором.
func TestBuffEndsOnUpdateAfterCountdownReachesZero(t *testing.T) {
	w := domain.NewWorld()
	id := spawn(t, w, true, 100, 100)
	const abilityID domain.EntityID = 42

	must(t, ApplyBuff(w, id, id, abilityID, "abilities.battlecry", domain.StatAttack, 0.5, 1))

	// Ход 1: 1 -> 0, бафф еще действует
	ended, err := UpdateBuffs(w, id)
	must(t, err)
	if len(ended) != 0 {
		t.Fatalf("turn 1: buff ended early: %v", ended)
	}
	buffs, err := domain.Require[*domain.Buffs](w, id)
	must(t, err)
	if buffs.ByAbility[abilityID].TurnsLeft != 0 {
		t.Fatalf("turn 1: TurnsLeft = %d, want 0", buffs.ByAbility[abilityID].TurnsLeft)
	}

	// Ход 2: бафф снимается и сообщается
	ended, err = UpdateBuffs(w, id)
	must(t, err)
	if !slices.Equal(ended, []string{"abilities.battlecry"}) {
		t.Fatalf("turn 2: ended = %v", ended)
	}
	if len(buffs.ByAbility) != 0 {
		t.Errorf("expected no buffs left, got %d", len(buffs.ByAbility))
	}
}

func TestApplyBuffReplacesSameAbility(t *testing.T) {
	w := domain.NewWorld()
	id := spawn(t, w, true, 100, 100)

	must(t, ApplyBuff(w, id, id, 7, "abilities.battlecry", domain.StatAttack, 0.5, 1))
	must(t, ApplyBuff(w, id, id, 7, "abilities.battlecry", domain.StatAttack, 0.5, 3))

	buffs, err := domain.Require[*domain.Buffs](w, id)
	must(t, err)
	if len(buffs.ByAbility) != 1 {
		t.Fatalf("expected 1 buff, got %d", len(buffs.ByAbility))
	}
	if buffs.ByAbility[7].TurnsLeft != 3 {
		t.Errorf("TurnsLeft = %d, want 3", buffs.ByAbility[7].TurnsLeft)
	}
}

func TestUpdateBuffsWithoutComponent(t *testing.T) {
	w := domain.NewWorld()
	id := spawn(t, w, false, 10, 100)

	ended, err := UpdateBuffs(w, id)
	must(t, err)
	if len(ended) != 0 {
		t.Errorf("expected nothing, got %v", ended)
	}
}
