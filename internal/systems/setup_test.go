package systems

import (
	"os"
	"testing"

	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

// spawn создает живую сущность с характеристиками и тегом стороны.
func spawn(t *testing.T, w *domain.World, player bool, health, speed int) domain.EntityID {
	t.Helper()
	id := w.CreateEntity()
	stats := &domain.Stats{
		Health: health, MaxHealth: health,
		Attack: 10, AttackOffset: domain.DefaultAttackOffset,
		AP: 1, MaxAP: 3,
		Speed: speed,
	}
	must(t, domain.Add(w, id, stats))
	must(t, domain.Add(w, id, domain.IsAlive{}))
	if player {
		must(t, domain.Add(w, id, domain.IsPlayer{}))
		must(t, domain.Add(w, id, &domain.PlayerData{Name: "Kira", Class: domain.ClassWarrior}))
	} else {
		must(t, domain.Add(w, id, domain.IsEnemy{}))
		must(t, domain.Add(w, id, domain.NewLocalization("entities.goblin")))
	}
	return id
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func statsOf(t *testing.T, w *domain.World, id domain.EntityID) *domain.Stats {
	t.Helper()
	stats, err := domain.Require[*domain.Stats](w, id)
	must(t, err)
	return stats
}
