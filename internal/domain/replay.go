package domain

// ReplayAction - одно полученное действие игрока (отклоненные тоже пишутся:
// при проигрывании они расходуют попытки хода так же, как в оригинальном бою).
type ReplayAction struct {
	Turn      int      `json:"turn"` // Номер цикла боя, в котором действие пришло
	AbilityID EntityID `json:"abilityId"`
	EntityID  EntityID `json:"entityId"`
	TargetID  EntityID `json:"targetId"`
}

// ReplaySession - полная запись боя.
// Вместе с сидом этого достаточно, чтобы повторить бой детерминированно.
type ReplaySession struct {
	Seed       int64          `json:"seed"`
	Timestamp  int64          `json:"timestamp"`
	EnemyCount int            `json:"enemyCount"`
	Class      PlayerClass    `json:"class"`
	PlayerName string         `json:"playerName"`
	Actions    []ReplayAction `json:"actions"`
}
