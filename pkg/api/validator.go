package api

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxNameLength ограничивает имя персонажа (имя пишется в файл реплея).
const MaxNameLength = 32

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p StartPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if utf8.RuneCountInString(p.Name) > MaxNameLength {
		return errors.New("name too long")
	}
	if p.Class == "" {
		return errors.New("class cannot be empty")
	}
	return nil
}

func (p ActionPayload) Validate() error {
	if p.AbilityID <= 0 {
		return errors.New("abilityId is required")
	}
	if p.EntityID <= 0 {
		return errors.New("entityId is required")
	}
	if p.TargetID < 0 {
		return errors.New("targetId cannot be negative")
	}
	return nil
}
