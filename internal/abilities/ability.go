// Package abilities - способности, их оценка для ИИ и реестр для сборки из блюпринтов.
package abilities

import (
	"errors"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
)

// ErrInvalidArgs - параметры способности из блюпринта не прошли проверку.
var ErrInvalidArgs = errors.New("invalid ability arguments")

// Ability - общий контракт всех способностей.
// Экземпляр хранит только конфигурацию; все изменяемое состояние боя живет в World.
type Ability interface {
	ID() domain.EntityID
	Kind() string // Имя в реестре: "basic_attack", "player_heal"...
	Scope() domain.Scope
	Cost() int // >0 тратит AP, <0 дает AP
	Key() string
	TooltipKey() string
	Data() map[string]any
	Considerations() []Consideration
	MaxWeight() float64

	// IsAvailable: target == domain.NoEntity означает проверку без цели (для UI).
	IsAvailable(w *domain.World, actorID, targetID domain.EntityID) (bool, error)

	// Execute - единственное место, где способность меняет состояние боя.
	Execute(w *domain.World, actorID, targetID domain.EntityID) ([]events.Event, error)

	// ToMap - параметры экземпляра в том же виде, в каком их принимает Registry.FromMap.
	ToMap() map[string]any
}

// base - общие поля конфигурации.
type base struct {
	id             domain.EntityID
	kind           string
	scope          domain.Scope
	cost           int
	key            string
	tooltipKey     string
	data           map[string]any
	considerations []Consideration
	maxWeight      float64
}

func (b *base) ID() domain.EntityID             { return b.id }
func (b *base) Kind() string                    { return b.kind }
func (b *base) Scope() domain.Scope             { return b.scope }
func (b *base) Cost() int                       { return b.cost }
func (b *base) Key() string                     { return b.key }
func (b *base) TooltipKey() string              { return b.tooltipKey }
func (b *base) Considerations() []Consideration { return b.considerations }

func (b *base) Data() map[string]any {
	out := make(map[string]any, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out
}

func (b *base) MaxWeight() float64 {
	if b.maxWeight <= 0 {
		return 1.0
	}
	return b.maxWeight
}

var (
	actorReady = []domain.ComponentType{domain.TypeOf[domain.InBattle](), domain.TypeOf[domain.IsAlive]()}
)

// readyWithAP - общий гейт: актор в бою, жив и у него хватает AP.
func readyWithAP(w *domain.World, actorID domain.EntityID, cost int) (bool, error) {
	if !w.Exists(actorID) {
		return false, domainMissing(actorID)
	}
	if !w.Has(actorID, actorReady...) {
		return false, nil
	}
	stats, err := domain.Require[*domain.Stats](w, actorID)
	if err != nil {
		return false, err
	}
	return stats.HasAP(cost), nil
}

// Component - способности сущности по ID экземпляра.
type Component struct {
	ByID map[domain.EntityID]Ability
}

// NewComponent создает пустой набор.
func NewComponent() *Component {
	return &Component{ByID: make(map[domain.EntityID]Ability)}
}

// IDs возвращает ID способностей по возрастанию (детерминированный порядок обхода).
func (c *Component) IDs() []domain.EntityID {
	ids := make([]domain.EntityID, 0, len(c.ByID))
	for id := range c.ByID {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Ordered - способности в порядке IDs.
func (c *Component) Ordered() []Ability {
	ids := c.IDs()
	out := make([]Ability, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.ByID[id])
	}
	return out
}
