package domain

// --- КОМПОНЕНТЫ ---
//
// Изменяемые записи (Stats, Speed, Buffs, Localization, PlayerData) хранятся
// в мире как указатели: Add(w, id, &Stats{...}), Get[*Stats](w, id).
// Теги - пустые структуры по значению: Add(w, id, IsAlive{}).

// Stats - характеристики и ресурсы живой сущности.
type Stats struct {
	Health       int `json:"health"`
	MaxHealth    int `json:"maxHealth"`
	Attack       int `json:"attack"`
	AttackOffset int `json:"attackOffset"` // Разброс урона: [Attack-Offset, Attack+Offset]
	AP           int `json:"ap"`
	MaxAP        int `json:"maxAp"`
	Speed        int `json:"speed"`
}

// Speed - состояние очереди ходов.
// Чем меньше ActionValue, тем раньше ход.
type Speed struct {
	BaseActionValue int `json:"baseActionValue"`
	ActionValue     int `json:"actionValue"`
}

// Buff - временный множитель характеристики.
type Buff struct {
	Key       string  `json:"key"` // Ключ сообщения способности, наложившей бафф
	TurnsLeft int     `json:"turnsLeft"`
	Stat      Stat    `json:"stat"`
	Bonus     float64 `json:"bonus"`
}

// Buffs - баффы сущности, ключ - ID экземпляра способности-источника.
// Повторное наложение той же способностью заменяет запись, а не добавляет вторую.
type Buffs struct {
	ByAbility map[EntityID]*Buff `json:"byAbility"`
}

// NewBuffs создает пустой набор баффов.
func NewBuffs() *Buffs {
	return &Buffs{ByAbility: make(map[EntityID]*Buff)}
}

// Localization - набор ключей текстов сущности. Ядро их не переводит.
type Localization struct {
	NameKey        string `json:"nameKey"`
	FlairKey       string `json:"flairKey"`
	AttackKey      string `json:"attackKey"`
	MissKey        string `json:"missKey"`
	HealKey        string `json:"healKey"`
	UselessHealKey string `json:"uselessHealKey"`
}

// NewLocalization выводит все ключи из ключа имени.
func NewLocalization(nameKey string) *Localization {
	return &Localization{
		NameKey:        nameKey,
		FlairKey:       nameKey + "_flair",
		AttackKey:      nameKey + "_attack",
		MissKey:        nameKey + "_miss",
		HealKey:        nameKey + "_heal",
		UselessHealKey: nameKey + "_useless_heal",
	}
}

// PlayerData - данные, которые есть только у игрока.
type PlayerData struct {
	Name  string      `json:"name"`
	Class PlayerClass `json:"class"`
}

// --- ТЕГИ ---

// Принадлежность
type IsPlayer struct{}
type IsEnemy struct{}

// Жизненный цикл: IsAlive -> PendingDeath -> IsDead
type IsAlive struct{}
type PendingDeath struct{}
type IsDead struct{}

// InBattle - сущность участвует в текущем бою.
type InBattle struct{}

// Возможности из блюпринта
type CanAttack struct{}
type CanHeal struct{}
