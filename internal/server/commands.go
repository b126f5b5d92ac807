package server

import (
	"encoding/json"
	"fmt"

	"skirmish-server/pkg/api"
)

// commandFunc - контракт для любой команды клиента (START, ACTION, STOP).
type commandFunc func(c *Client, payload json.RawMessage) error

// typedCommandFunc - это "чистый" хендлер, который работает с готовой структурой T
type typedCommandFunc[T any] func(c *Client, payload T) error

// withPayload берет "чистый" хендлер и превращает его в стандартный commandFunc.
// Она берет на себя Unmarshal и Validate.
func withPayload[T any](handler typedCommandFunc[T]) commandFunc {
	return func(c *Client, raw json.RawMessage) error {
		var payload T

		// 1. Распаковка JSON
		if len(raw) == 0 {
			return fmt.Errorf("payload is required")
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("invalid payload format: %w", err)
		}

		// 2. Автоматическая валидация
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
		}

		// 3. Вызов чистой логики
		return handler(c, payload)
	}
}

// withEmptyPayload - обертка для команд без данных (STOP)
func withEmptyPayload(handler func(c *Client) error) commandFunc {
	return func(c *Client, _ json.RawMessage) error {
		return handler(c)
	}
}

var commands = map[string]commandFunc{
	api.ActionStart:  withPayload(handleStart),
	api.ActionSubmit: withPayload(handleAction),
	api.ActionStop:   withEmptyPayload(handleStop),
}

// dispatch выполняет команду и превращает ошибку в сообщение ERROR.
func (c *Client) dispatch(cmd api.ClientCommand) {
	handler, ok := commands[cmd.Action]
	if !ok {
		c.replyError(cmd.Action, fmt.Errorf("unknown action %q", cmd.Action))
		return
	}
	if err := handler(c, cmd.Payload); err != nil {
		c.replyError(cmd.Action, err)
	}
}
