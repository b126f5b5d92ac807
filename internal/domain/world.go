package domain

import (
	"fmt"
	"reflect"
	"slices"
)

// ComponentType - ключ таблицы компонентов (тип записи времени компиляции).
type ComponentType = reflect.Type

// TypeOf возвращает ключ таблицы для типа компонента T.
func TypeOf[T any]() ComponentType {
	return reflect.TypeFor[T]()
}

// World - хранилище сущностей и компонентов.
// Для каждого типа компонента своя таблица entity -> запись.
// Пустая таблица удаляется сразу, поэтому "пустая" и "отсутствующая" эквивалентны.
//
// World не потокобезопасен: его мутирует только одна боевая горутина.
type World struct {
	nextID   EntityID
	entities map[EntityID]struct{}
	tables   map[ComponentType]map[EntityID]any
}

// NewWorld создает пустой мир. Первая сущность получит ID 1.
func NewWorld() *World {
	return &World{
		nextID:   1,
		entities: make(map[EntityID]struct{}),
		tables:   make(map[ComponentType]map[EntityID]any),
	}
}

// CreateEntity резервирует новый ID без компонентов.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.entities[id] = struct{}{}
	return id
}

// Exists проверяет, что сущность создана и еще не удалена.
func (w *World) Exists(id EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// Entities возвращает все живые ID по возрастанию.
func (w *World) Entities() []EntityID {
	ids := make([]EntityID, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DeleteEntity удаляет сущность и все ее компоненты.
func (w *World) DeleteEntity(id EntityID) error {
	if err := w.mustExist(id); err != nil {
		return err
	}
	for ct, table := range w.tables {
		if _, ok := table[id]; !ok {
			continue
		}
		delete(table, id)
		if len(table) == 0 {
			delete(w.tables, ct)
		}
	}
	delete(w.entities, id)
	return nil
}

func (w *World) mustExist(id EntityID) error {
	if _, ok := w.entities[id]; !ok {
		return fmt.Errorf("entity %s: %w", id, ErrNoSuchEntity)
	}
	return nil
}

func (w *World) put(id EntityID, ct ComponentType, c any) error {
	if err := w.mustExist(id); err != nil {
		return err
	}
	table, ok := w.tables[ct]
	if !ok {
		table = make(map[EntityID]any)
		w.tables[ct] = table
	}
	table[id] = c
	return nil
}

func (w *World) drop(id EntityID, ct ComponentType) error {
	if err := w.mustExist(id); err != nil {
		return err
	}
	table, ok := w.tables[ct]
	if !ok {
		return nil
	}
	delete(table, id)
	if len(table) == 0 {
		delete(w.tables, ct)
	}
	return nil
}

// Has возвращает true, только если у сущности есть ВСЕ перечисленные типы.
// Для несуществующей сущности всегда false.
func (w *World) Has(id EntityID, types ...ComponentType) bool {
	if !w.Exists(id) {
		return false
	}
	for _, ct := range types {
		if _, ok := w.tables[ct][id]; !ok {
			return false
		}
	}
	return true
}

// With возвращает сущности, у которых есть все перечисленные типы, по возрастанию ID.
// Пересечение строится от самой маленькой таблицы; если хотя бы одна таблица
// пуста, результат пуст сразу.
func (w *World) With(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}

	tables := make([]map[EntityID]any, 0, len(types))
	for _, ct := range types {
		table, ok := w.tables[ct]
		if !ok {
			return nil
		}
		tables = append(tables, table)
	}

	slices.SortFunc(tables, func(a, b map[EntityID]any) int {
		return len(a) - len(b)
	})

	result := make([]EntityID, 0, len(tables[0]))
	for id := range tables[0] {
		matched := true
		for _, table := range tables[1:] {
			if _, ok := table[id]; !ok {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// Count возвращает число владельцев компонента данного типа.
func (w *World) Count(ct ComponentType) int {
	return len(w.tables[ct])
}

// Add прикрепляет (или заменяет) компонент типа T к сущности.
func Add[T any](w *World, id EntityID, c T) error {
	return w.put(id, TypeOf[T](), c)
}

// Get возвращает компонент типа T. ok=false, если компонента нет;
// ошибка - только если самой сущности нет.
func Get[T any](w *World, id EntityID) (c T, ok bool, err error) {
	if err = w.mustExist(id); err != nil {
		return c, false, err
	}
	raw, found := w.tables[TypeOf[T]()][id]
	if !found {
		return c, false, nil
	}
	return raw.(T), true, nil
}

// Require работает как Get, но отсутствие компонента тоже считается ошибкой.
// Используется системами, для которых компонент обязателен (Stats, Speed...).
func Require[T any](w *World, id EntityID) (T, error) {
	c, ok, err := Get[T](w, id)
	if err != nil {
		return c, err
	}
	if !ok {
		return c, fmt.Errorf("entity %s has no %s: %w", id, TypeOf[T](), ErrMissingComponent)
	}
	return c, nil
}

// Remove открепляет компонент типа T. Если его нет - ничего не делает.
func Remove[T any](w *World, id EntityID) error {
	return w.drop(id, TypeOf[T]())
}

// HasComponent - короткая форма Has для одного типа.
func HasComponent[T any](w *World, id EntityID) bool {
	return w.Has(id, TypeOf[T]())
}
