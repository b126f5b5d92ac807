// Package blueprint загружает таблицы врагов и классов игрока.
// Каталог либо строится целиком, либо не строится вовсе: ошибка в любой записи фатальна.
package blueprint

import (
	"embed"
	"errors"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/domain"
)

//go:embed data/*.yaml
var defaultData embed.FS

const (
	EnemiesFile       = "enemies.yaml"
	PlayerClassesFile = "player_classes.yaml"
)

// ErrInvalidBlueprint - запись каталога не прошла проверку.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// Checker проверяет параметры способности. Реализуется abilities.Registry.
type Checker interface {
	CheckArgs(name string, params map[string]any) error
}

// Entity - неизменяемое описание сущности, из которого фабрика строит компоненты.
type Entity struct {
	Type      domain.EntityType
	ID        string
	NameKey   string
	Health    int
	AP        int
	MaxAP     int
	Attack    int
	Speed     int
	CanAttack bool
	CanHeal   bool
	Abilities []abilities.Spec
}

// Catalog - все блюпринты сессии.
type Catalog struct {
	enemyIDs []string // В порядке документа
	enemies  map[string]Entity
	weights  []float64 // Выровнены с enemyIDs
	players  map[domain.PlayerClass]Entity
}

// EnemyIDs - ID врагов в порядке документа.
func (c *Catalog) EnemyIDs() []string {
	return append([]string(nil), c.enemyIDs...)
}

// Weights - вероятности встречи, в том же порядке, что EnemyIDs.
func (c *Catalog) Weights() []float64 {
	return append([]float64(nil), c.weights...)
}

func (c *Catalog) Enemy(id string) (Entity, bool) {
	e, ok := c.enemies[id]
	return e, ok
}

func (c *Catalog) Player(class domain.PlayerClass) (Entity, bool) {
	e, ok := c.players[class]
	return e, ok
}

// Classes - доступные классы игрока.
func (c *Catalog) Classes() []domain.PlayerClass {
	out := make([]domain.PlayerClass, 0, len(c.players))
	for _, class := range []domain.PlayerClass{domain.ClassWarrior, domain.ClassThief, domain.ClassMage} {
		if _, ok := c.players[class]; ok {
			out = append(out, class)
		}
	}
	return out
}
