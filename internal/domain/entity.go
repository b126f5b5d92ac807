package domain

import "strconv"

// EntityID - непрозрачный идентификатор сущности.
// Выдаётся миром по возрастанию, начиная с 1. Сам по себе данных не несёт,
// это только ключ в таблицах компонентов.
type EntityID int64

// NoEntity - нулевой идентификатор, аналог nil ("цели нет").
const NoEntity EntityID = 0

// IsNone сообщает, что идентификатор не указывает ни на какую сущность.
func (id EntityID) IsNone() bool {
	return id == NoEntity
}

func (id EntityID) String() string {
	if id == NoEntity {
		return "none"
	}
	return "#" + strconv.FormatInt(int64(id), 10)
}
