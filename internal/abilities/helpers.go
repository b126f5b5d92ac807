package abilities

import (
	"fmt"
	"slices"

	"skirmish-server/internal/domain"
)

func sortIDs(ids []domain.EntityID) {
	slices.Sort(ids)
}

func domainMissing(id domain.EntityID) error {
	return fmt.Errorf("entity %s: %w", id, domain.ErrNoSuchEntity)
}

// --- Разбор параметров блюпринта ---
// Значения приходят из YAML (int, float64, string) или из ToMap.

func paramString(params map[string]any, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing %q: %w", key, ErrInvalidArgs)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string, got %T: %w", key, raw, ErrInvalidArgs)
	}
	return s, nil
}

func paramInt(params map[string]any, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing %q: %w", key, ErrInvalidArgs)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	}
	return 0, fmt.Errorf("%q must be an integer, got %T: %w", key, raw, ErrInvalidArgs)
}

func paramFloat(params map[string]any, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing %q: %w", key, ErrInvalidArgs)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%q must be a float, got %T: %w", key, raw, ErrInvalidArgs)
}

func paramScope(params map[string]any) (domain.Scope, error) {
	s, err := paramString(params, "scope")
	if err != nil {
		return domain.ScopeUnknown, err
	}
	scope, err := domain.ParseScope(s)
	if err != nil {
		return domain.ScopeUnknown, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return scope, nil
}
