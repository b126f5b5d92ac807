package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/blueprint"
	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoBlueprint       = errors.New("no blueprint")
	ErrInvalidEnemyCount = errors.New("enemy count must be at least 1")
)

// EntityFactory строит сущности мира из блюпринтов каталога.
type EntityFactory struct {
	catalog  *blueprint.Catalog
	registry *abilities.Registry
	rng      *rand.Rand
}

func NewEntityFactory(catalog *blueprint.Catalog, registry *abilities.Registry, rng *rand.Rand) *EntityFactory {
	return &EntityFactory{catalog: catalog, registry: registry, rng: rng}
}

// CreatePlayer создает игрока выбранного класса.
func (f *EntityFactory) CreatePlayer(w *domain.World, class domain.PlayerClass, name string) (domain.EntityID, error) {
	bp, ok := f.catalog.Player(class)
	if !ok {
		return domain.NoEntity, fmt.Errorf("player class %s: %w", class, ErrNoBlueprint)
	}
	return f.CreateEntity(w, bp, name, class)
}

// CreateEntity собирает сущность по блюпринту. name и class используются только для игрока.
func (f *EntityFactory) CreateEntity(w *domain.World, bp blueprint.Entity, name string, class domain.PlayerClass) (domain.EntityID, error) {
	comp, err := f.registry.Build(w, bp.Abilities)
	if err != nil {
		return domain.NoEntity, fmt.Errorf("abilities of %s: %w", bp.ID, err)
	}

	id := w.CreateEntity()
	components := []func() error{
		func() error {
			return domain.Add(w, id, &domain.Stats{
				Health:       bp.Health,
				MaxHealth:    bp.Health,
				Attack:       bp.Attack,
				AttackOffset: domain.DefaultAttackOffset,
				AP:           bp.AP,
				MaxAP:        bp.MaxAP,
				Speed:        bp.Speed,
			})
		},
		func() error { return domain.Add(w, id, domain.NewLocalization(bp.NameKey)) },
		func() error { return domain.Add(w, id, domain.NewBuffs()) },
		func() error { return domain.Add(w, id, domain.IsAlive{}) },
		func() error { return domain.Add(w, id, comp) },
	}

	switch bp.Type {
	case domain.EntityTypePlayer:
		components = append(components,
			func() error { return domain.Add(w, id, domain.IsPlayer{}) },
			func() error { return domain.Add(w, id, &domain.PlayerData{Name: name, Class: class}) },
		)
	case domain.EntityTypeEnemy:
		components = append(components, func() error { return domain.Add(w, id, domain.IsEnemy{}) })
	}
	if bp.CanAttack {
		components = append(components, func() error { return domain.Add(w, id, domain.CanAttack{}) })
	}
	if bp.CanHeal {
		components = append(components, func() error { return domain.Add(w, id, domain.CanHeal{}) })
	}

	for _, add := range components {
		if err := add(); err != nil {
			return domain.NoEntity, err
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "entity_factory",
		"entity_id": id,
		"blueprint": bp.ID,
		"type":      bp.Type,
	}).Debug("Entity created")
	return id, nil
}

// GenerateEnemies создает n врагов. С simpleFirst первым идет defaultID,
// остальные выбираются случайно с учетом вероятностей каталога.
func (f *EntityFactory) GenerateEnemies(w *domain.World, n int, simpleFirst bool, defaultID string) ([]domain.EntityID, error) {
	if n <= 0 {
		return nil, ErrInvalidEnemyCount
	}
	if len(f.catalog.EnemyIDs()) == 0 {
		return nil, fmt.Errorf("enemy list is empty: %w", ErrNoBlueprint)
	}

	ids := make([]domain.EntityID, 0, n)
	if simpleFirst {
		bp, ok := f.catalog.Enemy(defaultID)
		if !ok {
			return nil, fmt.Errorf("simple enemy %q: %w", defaultID, ErrNoBlueprint)
		}
		id, err := f.CreateEntity(w, bp, "", domain.ClassUnknown)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	for len(ids) < n {
		bp, err := f.pickEnemy()
		if err != nil {
			return nil, err
		}
		id, err := f.CreateEntity(w, bp, "", domain.ClassUnknown)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// pickEnemy — взвешенный случайный выбор по вероятностям каталога.
func (f *EntityFactory) pickEnemy() (blueprint.Entity, error) {
	enemyIDs := f.catalog.EnemyIDs()
	weights := f.catalog.Weights()

	total := 0.0
	for _, weight := range weights {
		total += max(0, weight)
	}
	if total <= 0 {
		return blueprint.Entity{}, fmt.Errorf("all enemy probabilities are zero: %w", ErrNoBlueprint)
	}

	roll := f.rng.Float64() * total
	for i, weight := range weights {
		roll -= max(0, weight)
		if roll < 0 {
			bp, _ := f.catalog.Enemy(enemyIDs[i])
			return bp, nil
		}
	}
	// Погрешность float: последний с ненулевым весом
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			bp, _ := f.catalog.Enemy(enemyIDs[i])
			return bp, nil
		}
	}
	return blueprint.Entity{}, ErrNoBlueprint
}
