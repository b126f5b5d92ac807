// Package events описывает все, чем ядро боя обменивается с внешним миром:
// исходящие события для отрисовки/локализации и входящий запрос действия игрока.
package events

import "skirmish-server/internal/domain"

// Event - любое событие ядра. Name используется как тип сообщения на проводе.
type Event interface {
	Name() string
}

// EntityView - неизменяемый снимок сущности для презентации.
type EntityView struct {
	EntityID       domain.EntityID `json:"entityId"`
	Key            string          `json:"key"`
	Health         int             `json:"health"`
	MaxHealth      int             `json:"maxHealth"`
	AP             int             `json:"ap"`
	MaxAP          int             `json:"maxAp"`
	Attack         int             `json:"attack"`
	Untranslatable bool            `json:"untranslatable"` // Имя игрока не проходит через перевод
}

// AbilityView - снимок состояния способности (единственный внешний взгляд на нее).
type AbilityView struct {
	AbilityID  domain.EntityID `json:"abilityId"`
	AP         int             `json:"ap"`
	Scope      domain.Scope    `json:"scope"`
	Key        string          `json:"key"`
	TooltipKey string          `json:"tooltipKey"`
	Data       map[string]any  `json:"data,omitempty"`
	Available  bool            `json:"available"`
}

// KeyRef - значение в Data, которое рендерер должен сам перевести по ключу.
type KeyRef struct {
	Key string `json:"key"`
}

// NameRef - отложенное имя сущности: ключ имени и признак "не переводить".
type NameRef struct {
	Key            string `json:"key"`
	Untranslatable bool   `json:"untranslatable,omitempty"`
}

// --- ИСХОДЯЩИЕ ---

type StartBattle struct {
	Heroes  []EntityView `json:"heroes"`
	Enemies []EntityView `json:"enemies"`
}

type BattleLog struct {
	MessageKey string         `json:"messageKey"`
	Data       map[string]any `json:"data,omitempty"`
}

type StatsChange struct {
	Entities []EntityView `json:"entities"`
}

type StartPlayerTurn struct {
	EntityID  domain.EntityID   `json:"entityId"`
	Abilities []AbilityView     `json:"abilities"`
	Upcoming  []domain.EntityID `json:"upcoming,omitempty"` // Прогноз следующих ходов
}

type EndPlayerTurn struct{}

type EntityDeath struct {
	EntityID domain.EntityID `json:"entityId"`
}

type BattleEnd struct {
	Result  domain.BattleResult `json:"result"`
	Aborted bool                `json:"aborted,omitempty"`
}

func (StartBattle) Name() string     { return "START_BATTLE" }
func (BattleLog) Name() string       { return "BATTLE_LOG" }
func (StatsChange) Name() string     { return "STATS_CHANGE" }
func (StartPlayerTurn) Name() string { return "START_PLAYER_TURN" }
func (EndPlayerTurn) Name() string   { return "END_PLAYER_TURN" }
func (EntityDeath) Name() string     { return "ENTITY_DEATH" }
func (BattleEnd) Name() string       { return "BATTLE_END" }

// Log - короткий конструктор записи лога.
func Log(key string, data map[string]any) BattleLog {
	return BattleLog{MessageKey: key, Data: data}
}

// --- ВХОДЯЩИЕ ---

// PlayerAction - запрос действия от человека. Приходит асинхронно и
// проверяется по реальному набору способностей актора.
type PlayerAction struct {
	AbilityID domain.EntityID `json:"abilityId"`
	EntityID  domain.EntityID `json:"entityId"`
	TargetID  domain.EntityID `json:"targetId,omitempty"` // NoEntity - без цели
}
