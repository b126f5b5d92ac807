package domain

// Значения по умолчанию для боя и блюпринтов
const (
	DefaultAttackOffset    = 2
	DefaultEnemyID         = "100" // "Простой" враг, который выходит первым
	DefaultPlayerHealValue = 20
	DefaultSpeed           = 100
	DefaultStartAP         = 1
	DefaultMaxAP           = 3

	// ActionValueScale делится на скорость: base = Scale / Speed.
	// Большое значение сохраняет порядок при целочисленном делении.
	ActionValueScale = 10000
)

// Ключи сообщений, которые ядро выдает само (не из блюпринтов)
const (
	MsgBuffEnd        = "abilities.buff_end"
	MsgHealthReminder = "entities.health_reminder"
	MsgDeadReminder   = "entities.dead_reminder"
	PlayerNameKey     = "unloc.player_name"
)
