package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// Названия команд клиента.
const (
	ActionStart  = "START"  // Создать персонажа и начать бой
	ActionSubmit = "ACTION" // Ход игрока
	ActionStop   = "STOP"   // Прервать текущий бой
)

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название команды (START, ACTION, STOP).
	Action string `json:"action"`

	// Payload JSON-объект с данными для команды. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StartPayload используется командой START.
type StartPayload struct {
	Name  string `json:"name"`
	Class string `json:"class"` // warrior, thief, mage
	Seed  int64  `json:"seed,omitempty"`
}

// ActionPayload используется командой ACTION.
// Идентификаторы приходят из START_PLAYER_TURN.
type ActionPayload struct {
	AbilityID int64 `json:"abilityId"`
	EntityID  int64 `json:"entityId"`
	TargetID  int64 `json:"targetId,omitempty"` // 0 — без цели
}

// --- СЕРВЕР -> КЛИЕНТ ---

// Служебные типы сообщений. Остальные типы совпадают с именами событий боя
// (START_BATTLE, BATTLE_LOG, STATS_CHANGE, START_PLAYER_TURN, ...).
const (
	TypeSession = "SESSION"
	TypeError   = "ERROR"
)

// ServerMessage это корневой объект, который сервер отправляет клиенту.
type ServerMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// SessionPayload подтверждает START: какой сессией и каким персонажем управляет клиент.
type SessionPayload struct {
	PlayerID int64  `json:"playerId"`
	Seed     int64  `json:"seed"`
	Class    string `json:"class"`
}

// ErrorPayload описывает отклоненную команду.
type ErrorPayload struct {
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}
