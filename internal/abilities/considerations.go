package abilities

import (
	"skirmish-server/internal/domain"
)

const epsilon = 1e-6

// ScoreFunc - сырая оценка цели. Proportionality уже учтена самой функцией.
type ScoreFunc func(w *domain.World, casterID, targetID domain.EntityID, p domain.Proportionality) (float64, error)

// Consideration - один взвешенный критерий выбора цели.
type Consideration struct {
	Name               string
	Score              ScoreFunc
	Weight             float64
	NeedsNormalization bool
	Proportionality    domain.Proportionality
}

// TargetDanger: attack × speed цели. Inverse: 1/(x+ε).
func TargetDanger(w *domain.World, _, targetID domain.EntityID, p domain.Proportionality) (float64, error) {
	stats, err := domain.Require[*domain.Stats](w, targetID)
	if err != nil {
		return 0, err
	}
	weight := float64(stats.Attack * stats.Speed)
	if p == domain.Direct {
		return weight, nil
	}
	return 1 / (weight + epsilon), nil
}

// TargetVulnerability: доля оставшегося здоровья цели. Inverse: 1 - x (чем слабее, тем выше).
func TargetVulnerability(w *domain.World, _, targetID domain.EntityID, p domain.Proportionality) (float64, error) {
	stats, err := domain.Require[*domain.Stats](w, targetID)
	if err != nil {
		return 0, err
	}
	if stats.MaxHealth <= 0 {
		return 0, nil
	}
	weight := float64(stats.Health) / float64(stats.MaxHealth)
	if p == domain.Direct {
		return weight, nil
	}
	return 1 - weight, nil
}

// CheckTargetBuffs: 0, если на цели уже висит бафф этой способности, иначе 1.
func CheckTargetBuffs(abilityID domain.EntityID) ScoreFunc {
	return func(w *domain.World, _, targetID domain.EntityID, _ domain.Proportionality) (float64, error) {
		buffs, ok, err := domain.Get[*domain.Buffs](w, targetID)
		if err != nil {
			return 0, err
		}
		if ok {
			if _, active := buffs.ByAbility[abilityID]; active {
				return 0, nil
			}
		}
		return 1, nil
	}
}
