package engine

import (
	"container/heap"

	"skirmish-server/internal/domain"
)

// TurnItem обертка для элемента очереди приоритетов
type TurnItem struct {
	ID       domain.EntityID
	Priority int // Момент следующего хода. Чем меньше, тем раньше ход.
	Base     int // Шаг между ходами (BaseActionValue)
	Index    int // Индекс в куче (нужен для update)
}

// TurnQueue реализует heap.Interface и хранит TurnItems
type TurnQueue []*TurnItem

func (pq TurnQueue) Len() int { return len(pq) }

func (pq TurnQueue) Less(i, j int) bool {
	// MinHeap; при равенстве раньше ходит меньший ID (как в systems.StartTurn)
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].ID < pq[j].ID
}

func (pq TurnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TurnQueue) Push(x any) {
	n := len(*pq)
	item := x.(*TurnItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TurnQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Update изменяет приоритет элемента в очереди
func (pq *TurnQueue) Update(item *TurnItem, priority int) {
	item.Priority = priority
	heap.Fix(pq, item.Index)
}

var previewable = []domain.ComponentType{
	domain.TypeOf[domain.InBattle](),
	domain.TypeOf[domain.IsAlive](),
	domain.TypeOf[*domain.Speed](),
}

// PreviewTurnOrder предсказывает следующие n ходов, не меняя мир.
//
// Вместо вычитания потраченного значения у всех (как делает EndTurn) очередь
// хранит абсолютное время хода: после хода сущность сдвигается на свой Base.
// Относительный порядок при этом тот же, что у настоящего планировщика.
func PreviewTurnOrder(w *domain.World, n int) ([]domain.EntityID, error) {
	if n <= 0 {
		return nil, nil
	}
	ids := w.With(previewable...)
	if len(ids) == 0 {
		return nil, nil
	}

	pq := make(TurnQueue, 0, len(ids))
	for _, id := range ids {
		speed, err := domain.Require[*domain.Speed](w, id)
		if err != nil {
			return nil, err
		}
		pq = append(pq, &TurnItem{ID: id, Priority: speed.ActionValue, Base: speed.BaseActionValue, Index: len(pq)})
	}
	heap.Init(&pq)

	order := make([]domain.EntityID, 0, n)
	for len(order) < n {
		next := pq[0]
		order = append(order, next.ID)
		pq.Update(next, next.Priority+next.Base)
	}
	return order, nil
}
