package systems

import (
	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
)

// WrapEntity собирает снимок сущности для клиента.
// Имя игрока приходит от пользователя, поэтому помечается как непереводимое.
func WrapEntity(w *domain.World, id domain.EntityID) (events.EntityView, error) {
	stats, err := domain.Require[*domain.Stats](w, id)
	if err != nil {
		return events.EntityView{}, err
	}
	name := NameOf(w, id)
	return events.EntityView{
		EntityID:       id,
		Key:            name.Key,
		Health:         stats.Health,
		MaxHealth:      stats.MaxHealth,
		AP:             stats.AP,
		MaxAP:          stats.MaxAP,
		Attack:         stats.Attack,
		Untranslatable: name.Untranslatable,
	}, nil
}

// WrapEntities - WrapEntity для списка.
func WrapEntities(w *domain.World, ids []domain.EntityID) ([]events.EntityView, error) {
	views := make([]events.EntityView, 0, len(ids))
	for _, id := range ids {
		view, err := WrapEntity(w, id)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// NameOf - ссылка на имя сущности для подстановки в сообщения.
func NameOf(w *domain.World, id domain.EntityID) events.NameRef {
	if data, ok, _ := domain.Get[*domain.PlayerData](w, id); ok {
		return events.NameRef{Key: data.Name, Untranslatable: true}
	}
	if loc, ok, _ := domain.Get[*domain.Localization](w, id); ok {
		return events.NameRef{Key: loc.NameKey}
	}
	return events.NameRef{Key: id.String(), Untranslatable: true}
}
