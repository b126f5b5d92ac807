package systems

import (
	"fmt"

	"skirmish-server/internal/domain"
)

var (
	aliveEnemies = []domain.ComponentType{domain.TypeOf[domain.IsEnemy](), domain.TypeOf[domain.InBattle](), domain.TypeOf[domain.IsAlive]()}
	alivePlayers = []domain.ComponentType{domain.TypeOf[domain.IsPlayer](), domain.TypeOf[domain.InBattle](), domain.TypeOf[domain.IsAlive]()}
)

// GetValidTargetSet возвращает живых участников боя для области действия способности,
// с точки зрения entityID. Порядок - по возрастанию ID.
func GetValidTargetSet(w *domain.World, entityID domain.EntityID, scope domain.Scope) ([]domain.EntityID, error) {
	if !w.Exists(entityID) {
		return nil, fmt.Errorf("target set for %s: %w", entityID, domain.ErrNoSuchEntity)
	}

	isPlayer := domain.HasComponent[domain.IsPlayer](w, entityID)
	isEnemy := domain.HasComponent[domain.IsEnemy](w, entityID)

	if !isPlayer && !isEnemy {
		return nil, fmt.Errorf("target set for %s: %w", entityID, domain.ErrUnknownAllegiance)
	}

	switch scope {
	case domain.ScopeSelf:
		return []domain.EntityID{entityID}, nil
	case domain.ScopeAllies, domain.ScopeEnemies:
		// Союзники игрока - игроки, союзники врага - враги. Для ENEMIES наоборот.
		wantPlayers := isPlayer == (scope == domain.ScopeAllies)
		if wantPlayers {
			return w.With(alivePlayers...), nil
		}
		return w.With(aliveEnemies...), nil
	default:
		return nil, fmt.Errorf("target set for scope %d: %w", scope, domain.ErrUnknownScope)
	}
}

// Allies - живые союзники сущности (включая ее саму).
func Allies(w *domain.World, entityID domain.EntityID) ([]domain.EntityID, error) {
	return GetValidTargetSet(w, entityID, domain.ScopeAllies)
}

// Opponents - живые противники сущности.
func Opponents(w *domain.World, entityID domain.EntityID) ([]domain.EntityID, error) {
	return GetValidTargetSet(w, entityID, domain.ScopeEnemies)
}
