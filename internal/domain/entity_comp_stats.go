package domain

// TakeDamage снимает здоровье, не опускаясь ниже нуля.
// Возвращает фактически снятое количество. Неположительный урон игнорируется.
func (s *Stats) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	taken := min(s.Health, amount)
	s.Health -= taken
	return taken
}

// IsDepleted - здоровье закончилось.
func (s *Stats) IsDepleted() bool {
	return s.Health <= 0
}

// Heal лечит не больше недостающего здоровья. Возвращает восстановленное.
func (s *Stats) Heal(amount int) int {
	missing := s.MaxHealth - s.Health
	if missing <= 0 || amount <= 0 {
		return 0
	}
	restored := min(missing, amount)
	s.Health += restored
	return restored
}

// HasAP проверяет, хватает ли очков действия.
func (s *Stats) HasAP(cost int) bool {
	return s.AP >= cost
}

// SpendAP тратит очки действия. Отрицательная стоимость дает AP, но не выше MaxAP.
// Возвращает false, если не хватило.
func (s *Stats) SpendAP(cost int) bool {
	if cost > s.AP {
		return false
	}
	s.AP = min(s.MaxAP, s.AP-cost)
	return true
}
