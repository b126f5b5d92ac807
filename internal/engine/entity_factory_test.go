package engine

import (
	"errors"
	"math/rand"
	"testing"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/blueprint"
	"skirmish-server/internal/domain"
)

func newTestFactory(t *testing.T, w *domain.World, catalog *blueprint.Catalog) *EntityFactory {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	registry := abilities.NewRegistry(rng)
	if err := registry.CreateShared(w); err != nil {
		t.Fatal(err)
	}
	return NewEntityFactory(catalog, registry, rng)
}

func TestCreatePlayer(t *testing.T) {
	w := domain.NewWorld()
	f := newTestFactory(t, w, duelCatalog(t))

	id, err := f.CreatePlayer(w, domain.ClassWarrior, "Kira")
	if err != nil {
		t.Fatal(err)
	}

	if !w.Has(id, domain.TypeOf[domain.IsPlayer](), domain.TypeOf[domain.IsAlive](), domain.TypeOf[domain.CanAttack](), domain.TypeOf[domain.CanHeal]()) {
		t.Error("player is missing tags")
	}
	stats, err := domain.Require[*domain.Stats](w, id)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Health != 100 || stats.MaxHealth != 100 || stats.AttackOffset != domain.DefaultAttackOffset || stats.AP != 1 || stats.MaxAP != 3 {
		t.Errorf("stats = %+v", stats)
	}
	loc, err := domain.Require[*domain.Localization](w, id)
	if err != nil {
		t.Fatal(err)
	}
	if loc.NameKey != domain.PlayerNameKey || loc.MissKey != domain.PlayerNameKey+"_miss" {
		t.Errorf("localization = %+v", loc)
	}
	data, err := domain.Require[*domain.PlayerData](w, id)
	if err != nil {
		t.Fatal(err)
	}
	if data.Name != "Kira" || data.Class != domain.ClassWarrior {
		t.Errorf("player data = %+v", data)
	}

	if _, err := f.CreatePlayer(w, domain.ClassMage, "Nobody"); !errors.Is(err, ErrNoBlueprint) {
		t.Errorf("missing class: %v, want ErrNoBlueprint", err)
	}
}

func TestGenerateEnemies(t *testing.T) {
	catalog, err := blueprint.Default(abilities.NewRegistry(nil))
	if err != nil {
		t.Fatal(err)
	}
	w := domain.NewWorld()
	f := newTestFactory(t, w, catalog)

	ids, err := f.GenerateEnemies(w, 4, true, domain.DefaultEnemyID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 4 {
		t.Fatalf("got %d enemies, want 4", len(ids))
	}

	simple, _ := catalog.Enemy(domain.DefaultEnemyID)
	loc, err := domain.Require[*domain.Localization](w, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if loc.NameKey != simple.NameKey {
		t.Errorf("first enemy = %s, want %s", loc.NameKey, simple.NameKey)
	}
	for _, id := range ids {
		if !domain.HasComponent[domain.IsEnemy](w, id) {
			t.Errorf("%s is not an enemy", id)
		}
	}

	if _, err := f.GenerateEnemies(w, 0, true, domain.DefaultEnemyID); !errors.Is(err, ErrInvalidEnemyCount) {
		t.Errorf("zero count: %v", err)
	}
	if _, err := f.GenerateEnemies(w, 1, true, "missing"); !errors.Is(err, ErrNoBlueprint) {
		t.Errorf("missing simple enemy: %v", err)
	}
}

func TestUniqueAbilitiesPerEntity(t *testing.T) {
	catalog, err := blueprint.Default(abilities.NewRegistry(nil))
	if err != nil {
		t.Fatal(err)
	}
	w := domain.NewWorld()
	f := newTestFactory(t, w, catalog)

	a, err := f.CreatePlayer(w, domain.ClassWarrior, "A")
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.CreatePlayer(w, domain.ClassWarrior, "B")
	if err != nil {
		t.Fatal(err)
	}

	compA, _ := domain.Require[*abilities.Component](w, a)
	compB, _ := domain.Require[*abilities.Component](w, b)

	shared := 0
	for id := range compA.ByID {
		if _, ok := compB.ByID[id]; ok {
			shared++
		}
	}
	// Общая только basic_attack
	if shared != 1 {
		t.Errorf("shared ability ids = %d, want 1", shared)
	}
}
