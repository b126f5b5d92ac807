package abilities

import (
	"slices"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/internal/systems"
)

// Evaluate выбирает лучшую цель для способности среди кандидатов.
//
// 1. Отсеиваем кандидатов, для которых способность недоступна.
// 2. Считаем сырые оценки по каждому Consideration.
// 3. Нормализуем помеченные критерии делением на максимум (максимум 0 -> все 0).
// 4. Полезность = Σ(оценка × вес).
// 5. Побеждает строго наибольшая; при равенстве - кандидат с меньшим ID.
// 6. Результат обрезается по MaxWeight способности.
//
// Если кандидатов не осталось, возвращает (NoEntity, 0).
func Evaluate(w *domain.World, ab Ability, actorID domain.EntityID, candidates []domain.EntityID) (domain.EntityID, float64, error) {
	ordered := slices.Clone(candidates)
	slices.Sort(ordered)

	considerations := ab.Considerations()

	var targets []domain.EntityID
	var scores [][]float64 // [кандидат][критерий]
	for _, targetID := range ordered {
		ok, err := ab.IsAvailable(w, actorID, targetID)
		if err != nil {
			return domain.NoEntity, 0, err
		}
		if !ok {
			continue
		}

		row := make([]float64, len(considerations))
		for i, c := range considerations {
			score, err := c.Score(w, actorID, targetID, c.Proportionality)
			if err != nil {
				return domain.NoEntity, 0, err
			}
			row[i] = score
		}
		targets = append(targets, targetID)
		scores = append(scores, row)
	}

	if len(targets) == 0 {
		return domain.NoEntity, 0, nil
	}

	for i, c := range considerations {
		if !c.NeedsNormalization {
			continue
		}
		maxScore := 0.0
		for _, row := range scores {
			maxScore = max(maxScore, row[i])
		}
		for _, row := range scores {
			if maxScore > 0 {
				row[i] /= maxScore
			} else {
				row[i] = 0
			}
		}
	}

	bestID := domain.NoEntity
	bestScore := 0.0
	for idx, targetID := range targets {
		total := 0.0
		for i, c := range considerations {
			total += scores[idx][i] * c.Weight
		}
		if bestID.IsNone() || total > bestScore {
			bestID = targetID
			bestScore = total
		}
	}

	return bestID, min(bestScore, ab.MaxWeight()), nil
}

// Choice - выбранная автоматическим актором пара способность/цель.
type Choice struct {
	Ability  Ability
	TargetID domain.EntityID
	Utility  float64
}

// SelectAction оценивает все способности актора и возвращает лучшую пару
// с существующей целью. ok=false - подходящего действия нет (ход пропускается).
//
// Оценки разных способностей не приводятся к общей шкале: каждая нормализуется
// только по своему пулу целей.
func SelectAction(w *domain.World, comp *Component, actorID domain.EntityID) (Choice, bool, error) {
	if comp == nil {
		return Choice{}, false, nil
	}

	var choices []Choice
	for _, ab := range comp.Ordered() {
		candidates, err := systems.GetValidTargetSet(w, actorID, ab.Scope())
		if err != nil {
			return Choice{}, false, err
		}
		targetID, utility, err := Evaluate(w, ab, actorID, candidates)
		if err != nil {
			return Choice{}, false, err
		}
		choices = append(choices, Choice{Ability: ab, TargetID: targetID, Utility: utility})
	}

	slices.SortStableFunc(choices, func(a, b Choice) int {
		switch {
		case a.Utility > b.Utility:
			return -1
		case a.Utility < b.Utility:
			return 1
		}
		return 0
	})

	for _, c := range choices {
		if !c.TargetID.IsNone() {
			return c, true, nil
		}
	}
	return Choice{}, false, nil
}

// StatePackage - снимок способности для клиента.
func StatePackage(w *domain.World, ab Ability, actorID domain.EntityID) (events.AbilityView, error) {
	available, err := ab.IsAvailable(w, actorID, domain.NoEntity)
	if err != nil {
		return events.AbilityView{}, err
	}
	return events.AbilityView{
		AbilityID:  ab.ID(),
		AP:         ab.Cost(),
		Scope:      ab.Scope(),
		Key:        ab.Key(),
		TooltipKey: ab.TooltipKey(),
		Data:       ab.Data(),
		Available:  available,
	}, nil
}

// WrapAbilities - снимки всех способностей сущности (по возрастанию ID).
func WrapAbilities(w *domain.World, actorID domain.EntityID) ([]events.AbilityView, error) {
	comp, ok, err := domain.Get[*Component](w, actorID)
	if err != nil || !ok {
		return nil, err
	}
	views := make([]events.AbilityView, 0, len(comp.ByID))
	for _, ab := range comp.Ordered() {
		view, err := StatePackage(w, ab, actorID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
