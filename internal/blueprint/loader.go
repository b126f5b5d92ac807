package blueprint

import (
	"fmt"
	"os"
	"path/filepath"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/domain"
	"skirmish-server/pkg/logger"

	"gopkg.in/yaml.v3"
)

type enemyDoc struct {
	Name        string           `yaml:"name"`
	Health      int              `yaml:"health"`
	Attack      int              `yaml:"attack"`
	Speed       *int             `yaml:"speed"`
	Probability float64          `yaml:"probability"`
	StartAP     *int             `yaml:"start_ap"`
	MaxAP       *int             `yaml:"max_ap"`
	CanAttack   *bool            `yaml:"can_attack"`
	CanHeal     *bool            `yaml:"can_heal"`
	Abilities   []map[string]any `yaml:"abilities"`
}

type playerDoc struct {
	Class     string           `yaml:"class"`
	Health    *int             `yaml:"health"`
	Attack    *int             `yaml:"attack"`
	Speed     *int             `yaml:"speed"`
	StartAP   *int             `yaml:"start_ap"`
	MaxAP     *int             `yaml:"max_ap"`
	Abilities []map[string]any `yaml:"abilities"`
}

// Default строит каталог из встроенных данных.
func Default(checker Checker) (*Catalog, error) {
	enemies, err := defaultData.ReadFile("data/" + EnemiesFile)
	if err != nil {
		return nil, err
	}
	players, err := defaultData.ReadFile("data/" + PlayerClassesFile)
	if err != nil {
		return nil, err
	}
	return Load(enemies, players, checker)
}

// LoadDir читает enemies.yaml и player_classes.yaml из директории.
func LoadDir(dir string, checker Checker) (*Catalog, error) {
	enemies, err := os.ReadFile(filepath.Join(dir, EnemiesFile))
	if err != nil {
		return nil, fmt.Errorf("read enemies: %w", err)
	}
	players, err := os.ReadFile(filepath.Join(dir, PlayerClassesFile))
	if err != nil {
		return nil, fmt.Errorf("read player classes: %w", err)
	}
	return Load(enemies, players, checker)
}

// Load разбирает оба документа.
func Load(enemiesYAML, playersYAML []byte, checker Checker) (*Catalog, error) {
	c := &Catalog{
		enemies: make(map[string]Entity),
		players: make(map[domain.PlayerClass]Entity),
	}

	// 1. Враги (порядок ключей важен: по нему выравниваются веса)
	err := eachEntry(enemiesYAML, func(id string, node *yaml.Node) error {
		var doc enemyDoc
		if err := node.Decode(&doc); err != nil {
			return invalid(id, "%v", err)
		}
		bp, err := makeEnemy(id, doc, checker)
		if err != nil {
			return err
		}
		if _, dup := c.enemies[id]; dup {
			return invalid(id, "duplicate enemy id")
		}
		c.enemyIDs = append(c.enemyIDs, id)
		c.enemies[id] = bp
		c.weights = append(c.weights, doc.Probability)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2. Классы игрока
	err = eachEntry(playersYAML, func(id string, node *yaml.Node) error {
		var doc playerDoc
		if err := node.Decode(&doc); err != nil {
			return invalid(id, "%v", err)
		}
		class, bp, err := makePlayer(id, doc, checker)
		if err != nil {
			return err
		}
		c.players[class] = bp
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("component", "blueprint").
		WithField("enemies", len(c.enemyIDs)).
		WithField("classes", len(c.players)).
		Info("Blueprint catalog loaded")
	return c, nil
}

// eachEntry обходит корневой mapping документа в порядке записей.
func eachEntry(data []byte, fn func(id string, node *yaml.Node) error) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBlueprint, err)
	}
	if len(root.Content) == 0 {
		return nil // Пустой документ
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: top level must be a mapping", ErrInvalidBlueprint)
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if err := fn(doc.Content[i].Value, doc.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func makeEnemy(id string, doc enemyDoc, checker Checker) (Entity, error) {
	if doc.Name == "" {
		return Entity{}, invalid(id, "name is required")
	}
	nameKey := "entities." + doc.Name
	if doc.Health == 0 {
		return Entity{}, invalid(id, "health is required for %s", nameKey)
	}
	if doc.Attack == 0 {
		return Entity{}, invalid(id, "attack is required for %s", nameKey)
	}
	if doc.Probability == 0 {
		logger.Log.WithField("component", "blueprint").
			WithField("enemy", nameKey).
			Warn("Enemy has no probability and will not be encountered")
	}

	specs, err := makeSpecs(id, doc.Abilities, checker)
	if err != nil {
		return Entity{}, err
	}

	return Entity{
		Type:      domain.EntityTypeEnemy,
		ID:        id,
		NameKey:   nameKey,
		Health:    doc.Health,
		AP:        orDefault(doc.StartAP, domain.DefaultStartAP),
		MaxAP:     orDefault(doc.MaxAP, domain.DefaultMaxAP),
		Attack:    doc.Attack,
		Speed:     orDefault(doc.Speed, domain.DefaultSpeed),
		CanAttack: orDefault(doc.CanAttack, true),
		CanHeal:   orDefault(doc.CanHeal, false),
		Abilities: specs,
	}, nil
}

func makePlayer(id string, doc playerDoc, checker Checker) (domain.PlayerClass, Entity, error) {
	if doc.Class == "" {
		return 0, Entity{}, invalid(id, "class is required")
	}
	class, err := domain.ParsePlayerClass(doc.Class)
	if err != nil {
		return 0, Entity{}, invalid(id, "%v", err)
	}
	if doc.Health == nil {
		return 0, Entity{}, invalid(id, "health is required for class %s", class)
	}
	if doc.Attack == nil {
		return 0, Entity{}, invalid(id, "attack is required for class %s", class)
	}

	specs, err := makeSpecs(id, doc.Abilities, checker)
	if err != nil {
		return 0, Entity{}, err
	}

	// Игрок всегда может атаковать и лечиться
	return class, Entity{
		Type:      domain.EntityTypePlayer,
		ID:        id,
		NameKey:   domain.PlayerNameKey,
		Health:    *doc.Health,
		AP:        orDefault(doc.StartAP, domain.DefaultStartAP),
		MaxAP:     orDefault(doc.MaxAP, domain.DefaultMaxAP),
		Attack:    *doc.Attack,
		Speed:     orDefault(doc.Speed, domain.DefaultSpeed),
		CanAttack: true,
		CanHeal:   true,
		Abilities: specs,
	}, nil
}

func makeSpecs(owner string, raw []map[string]any, checker Checker) ([]abilities.Spec, error) {
	specs := make([]abilities.Spec, 0, len(raw))
	for _, params := range raw {
		name, _ := params["id"].(string)
		if name == "" {
			return nil, invalid(owner, "ability without string id: %v", params)
		}
		if checker != nil {
			if err := checker.CheckArgs(name, params); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBlueprint, owner, err)
			}
		}
		specs = append(specs, abilities.Spec{Name: name, Params: params})
	}
	return specs, nil
}

func invalid(id, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidBlueprint, id, fmt.Sprintf(format, args...))
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
