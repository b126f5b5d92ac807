package engine

import (
	"time"

	"skirmish-server/internal/domain"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed — зерно сессии. От него зависят состав врагов и все броски урона,
	// поэтому тот же Seed + те же действия игрока дают тот же бой.
	Seed int64

	EnemyCount       int
	SimpleEnemyFirst bool   // Первый враг всегда DefaultEnemyID
	DefaultEnemyID   string // ID "простого" врага в каталоге

	// Паузы только для зрителя: на результат боя не влияют.
	EventDelay time.Duration // Между событиями одного хода
	TurnDelay  time.Duration // Между ходами
	StartDelay time.Duration // После объявления начала боя

	MaxInputAttempts int // Сколько некорректных действий игрока терпим за ход
	PreviewDepth     int // Сколько будущих ходов показывать в StartPlayerTurn
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:             time.Now().UnixNano(),
		EnemyCount:       2,
		SimpleEnemyFirst: true,
		DefaultEnemyID:   domain.DefaultEnemyID,
		EventDelay:       20 * time.Millisecond,
		TurnDelay:        time.Second,
		StartDelay:       200 * time.Millisecond,
		MaxInputAttempts: 3,
		PreviewDepth:     5,
	}
}

// Instant — копия без пауз (тесты, симуляция, проигрывание реплеев).
func (c Config) Instant() Config {
	c.EventDelay = 0
	c.TurnDelay = 0
	c.StartDelay = 0
	return c
}
