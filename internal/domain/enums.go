package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Scope - широта прицеливания способности относительно стороны актора.
type Scope uint8

const (
	ScopeUnknown Scope = iota
	ScopeSelf
	ScopeAllies
	ScopeEnemies
)

var scopeByName = map[string]Scope{
	"SELF":    ScopeSelf,
	"ALLIES":  ScopeAllies,
	"ENEMIES": ScopeEnemies,
}

var scopeNames = map[Scope]string{
	ScopeSelf:    "SELF",
	ScopeAllies:  "ALLIES",
	ScopeEnemies: "ENEMIES",
}

// ParseScope конвертирует строку из блюпринта в Scope (регистр не важен).
func ParseScope(s string) (Scope, error) {
	if val, ok := scopeByName[strings.ToUpper(s)]; ok {
		return val, nil
	}
	return ScopeUnknown, fmt.Errorf("%q: %w", s, ErrUnknownScope)
}

func (s Scope) String() string {
	if val, ok := scopeNames[s]; ok {
		return val
	}
	return "UNKNOWN"
}

func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Stat - характеристика, на которую действует бафф.
type Stat uint8

const (
	StatAttack Stat = iota + 1
	StatSpeed
)

func (s Stat) String() string {
	switch s {
	case StatAttack:
		return "ATTACK"
	case StatSpeed:
		return "SPEED"
	}
	return "UNKNOWN"
}

// Proportionality - ориентация оценки в Consideration.
type Proportionality uint8

const (
	Direct Proportionality = iota
	Inverse
)

func (p Proportionality) String() string {
	if p == Inverse {
		return "INVERSE"
	}
	return "DIRECT"
}

// BattleResult - итог боя.
type BattleResult uint8

const (
	Victory BattleResult = iota + 1
	Defeat
)

func (r BattleResult) String() string {
	switch r {
	case Victory:
		return "VICTORY"
	case Defeat:
		return "DEFEAT"
	}
	return "UNKNOWN"
}

func (r BattleResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// EntityType - сторона, для которой построен блюпринт.
type EntityType uint8

const (
	EntityTypePlayer EntityType = iota + 1
	EntityTypeEnemy
)

func (t EntityType) String() string {
	switch t {
	case EntityTypePlayer:
		return "PLAYER"
	case EntityTypeEnemy:
		return "ENEMY"
	}
	return "UNKNOWN"
}

// PlayerClass - класс персонажа игрока.
type PlayerClass uint8

const (
	ClassUnknown PlayerClass = iota
	ClassWarrior
	ClassThief
	ClassMage
)

var classByName = map[string]PlayerClass{
	"WARRIOR": ClassWarrior,
	"THIEF":   ClassThief,
	"MAGE":    ClassMage,
}

// ParsePlayerClass конвертирует строку в PlayerClass (регистр не важен).
func ParsePlayerClass(s string) (PlayerClass, error) {
	if val, ok := classByName[strings.ToUpper(s)]; ok {
		return val, nil
	}
	return ClassUnknown, fmt.Errorf("invalid player class %q", s)
}

func (c PlayerClass) String() string {
	for name, val := range classByName {
		if val == c {
			return name
		}
	}
	return "UNKNOWN"
}

func (c PlayerClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
