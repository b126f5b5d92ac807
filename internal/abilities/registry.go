package abilities

import (
	"fmt"
	"math/rand"
	"slices"

	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Spec - описание способности в блюпринте: имя в реестре + свободные параметры.
type Spec struct {
	Name   string
	Params map[string]any
}

type builder func(r *Registry, id domain.EntityID, params map[string]any) (Ability, error)

type definition struct {
	shared bool
	check  func(params map[string]any) error
	build  builder
}

// Registry - фабрика способностей, принадлежащая сессии.
// Shared-способности существуют в одном экземпляре на мир, unique создаются на каждого владельца.
type Registry struct {
	rng    *rand.Rand
	defs   map[string]definition
	shared map[string]Ability
}

// NewRegistry регистрирует все известные способности.
// rng используется способностями со случайным эффектом; для одной лишь проверки параметров может быть nil.
func NewRegistry(rng *rand.Rand) *Registry {
	r := &Registry{
		rng:    rng,
		defs:   make(map[string]definition),
		shared: make(map[string]Ability),
	}

	r.register(KindBasicAttack, true,
		func(map[string]any) error { return nil },
		func(r *Registry, id domain.EntityID, _ map[string]any) (Ability, error) {
			return newBasicAttack(id, r.rng), nil
		})
	r.register(KindPlayerHeal, false, checkPlayerHeal,
		func(_ *Registry, id domain.EntityID, params map[string]any) (Ability, error) {
			return newPlayerHeal(id, params)
		})
	r.register(KindBattleCry, false, checkBattleCry,
		func(_ *Registry, id domain.EntityID, params map[string]any) (Ability, error) {
			return newBattleCry(id, params)
		})

	return r
}

func (r *Registry) register(name string, shared bool, check func(map[string]any) error, build builder) {
	r.defs[name] = definition{shared: shared, check: check, build: build}
}

// Kinds - зарегистрированные имена по алфавиту.
func (r *Registry) Kinds() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsShared сообщает, общая ли способность.
func (r *Registry) IsShared(name string) bool {
	return r.defs[name].shared
}

// CheckArgs проверяет параметры до создания способности.
func (r *Registry) CheckArgs(name string, params map[string]any) error {
	def, ok := r.defs[name]
	if !ok {
		return fmt.Errorf("ability %q is not registered: %w", name, ErrInvalidArgs)
	}
	if err := def.check(params); err != nil {
		return fmt.Errorf("ability %q: %w", name, err)
	}
	return nil
}

// CreateShared выделяет в мире по одному ID на каждую shared-способность.
// Вызывается один раз при подготовке мира; повторный вызов пересоздает экземпляры для нового мира.
func (r *Registry) CreateShared(w *domain.World) error {
	r.shared = make(map[string]Ability)
	for _, name := range r.Kinds() {
		def := r.defs[name]
		if !def.shared {
			continue
		}
		id := w.CreateEntity()
		ab, err := def.build(r, id, nil)
		if err != nil {
			return fmt.Errorf("create shared %q: %w", name, err)
		}
		r.shared[name] = ab

		logger.Log.WithFields(logrus.Fields{
			"component":  "ability_registry",
			"ability":    name,
			"ability_id": id,
		}).Debug("Shared ability created")
	}
	return nil
}

// Shared возвращает экземпляр shared-способности (после CreateShared).
func (r *Registry) Shared(name string) (Ability, bool) {
	ab, ok := r.shared[name]
	return ab, ok
}

// Build собирает компонент способностей сущности.
// Shared - ссылка на общий экземпляр, unique - новый ID в мире.
func (r *Registry) Build(w *domain.World, specs []Spec) (*Component, error) {
	comp := NewComponent()
	for _, spec := range specs {
		if err := r.CheckArgs(spec.Name, spec.Params); err != nil {
			return nil, err
		}
		def := r.defs[spec.Name]

		if def.shared {
			ab, ok := r.shared[spec.Name]
			if !ok {
				return nil, fmt.Errorf("shared ability %q was not created for this world: %w", spec.Name, ErrInvalidArgs)
			}
			comp.ByID[ab.ID()] = ab
			continue
		}

		ab, err := def.build(r, w.CreateEntity(), spec.Params)
		if err != nil {
			return nil, err
		}
		comp.ByID[ab.ID()] = ab
	}
	return comp, nil
}

// FromMap восстанавливает способность по результату ToMap. Имя берется из ключа "id".
func (r *Registry) FromMap(id domain.EntityID, m map[string]any) (Ability, error) {
	name, err := paramString(m, "id")
	if err != nil {
		return nil, err
	}
	if err := r.CheckArgs(name, m); err != nil {
		return nil, err
	}
	return r.defs[name].build(r, id, m)
}
