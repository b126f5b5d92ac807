package agent

import (
	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HealThreshold — ниже этой доли здоровья бот лечится, если может.
const HealThreshold = 0.4

// SubmitFunc отправляет действие в бой (GameEngine.SubmitAction или транспорт).
type SubmitFunc func(act events.PlayerAction) error

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Он видит бой только через исходящие события — ровно то же, что получает
// клиент по WebSocket, — и отвечает действием на каждый StartPlayerTurn.
//
// Жизненный цикл:
//  1. NewBot -> получает функцию отправки действий.
//  2. Handle (синхронно, как Sink) или Run (читает канал событий в горутине).
//  3. StartBattle / StatsChange / EntityDeath обновляют локальную картину боя.
//  4. StartPlayerTurn -> decide -> submit.
type Bot struct {
	submit SubmitFunc
	log    *logrus.Entry

	playerID domain.EntityID
	roster   map[domain.EntityID]events.EntityView
	enemies  []domain.EntityID // В порядке StartBattle
	dead     map[domain.EntityID]bool
}

func NewBot(submit SubmitFunc) *Bot {
	return &Bot{
		submit: submit,
		log:    logger.For("bot"),
		roster: make(map[domain.EntityID]events.EntityView),
		dead:   make(map[domain.EntityID]bool),
	}
}

// Run обрабатывает события, пока канал не закроется. Должен быть запущен в горутине.
func (b *Bot) Run(inbox <-chan events.Event) {
	for ev := range inbox {
		b.Handle(ev)
	}
	b.log.Debug("Agent shut down")
}

// Handle обновляет картину боя и при необходимости делает ход.
func (b *Bot) Handle(ev events.Event) {
	switch e := ev.(type) {
	case events.StartBattle:
		b.roster = make(map[domain.EntityID]events.EntityView)
		b.dead = make(map[domain.EntityID]bool)
		b.enemies = b.enemies[:0]
		for _, hero := range e.Heroes {
			b.playerID = hero.EntityID
			b.roster[hero.EntityID] = hero
		}
		for _, enemy := range e.Enemies {
			b.enemies = append(b.enemies, enemy.EntityID)
			b.roster[enemy.EntityID] = enemy
		}

	case events.StatsChange:
		for _, view := range e.Entities {
			b.roster[view.EntityID] = view
		}

	case events.EntityDeath:
		b.dead[e.EntityID] = true

	case events.StartPlayerTurn:
		act, ok := b.decide(e)
		if !ok {
			// Пустое действие будет отклонено боем; после исчерпания попыток ход пропускается
			b.log.Warn("No usable ability, passing the turn")
			act = events.PlayerAction{EntityID: e.EntityID}
		}
		if err := b.submit(act); err != nil {
			b.log.WithError(err).Warn("Action rejected")
		}
	}
}

// decide — мозг бота.
// 1. Мало здоровья и есть доступное лечение — лечимся.
// 2. Иначе первая доступная атакующая способность по самому слабому живому врагу.
func (b *Bot) decide(turn events.StartPlayerTurn) (events.PlayerAction, bool) {
	me := b.roster[turn.EntityID]

	if me.MaxHealth > 0 && float64(me.Health)/float64(me.MaxHealth) < HealThreshold {
		for _, ab := range turn.Abilities {
			if !ab.Available || (ab.Scope != domain.ScopeSelf && ab.Scope != domain.ScopeAllies) {
				continue
			}
			if _, heals := ab.Data["HEALTH"]; heals {
				return events.PlayerAction{AbilityID: ab.AbilityID, EntityID: turn.EntityID, TargetID: turn.EntityID}, true
			}
		}
	}

	target, ok := b.weakestEnemy()
	if !ok {
		return events.PlayerAction{}, false
	}
	for _, ab := range turn.Abilities {
		if ab.Available && ab.Scope == domain.ScopeEnemies {
			return events.PlayerAction{AbilityID: ab.AbilityID, EntityID: turn.EntityID, TargetID: target}, true
		}
	}
	return events.PlayerAction{}, false
}

func (b *Bot) weakestEnemy() (domain.EntityID, bool) {
	best := domain.NoEntity
	bestHealth := 0
	for _, id := range b.enemies {
		view := b.roster[id]
		if b.dead[id] || view.Health <= 0 {
			continue
		}
		if best.IsNone() || view.Health < bestHealth {
			best = id
			bestHealth = view.Health
		}
	}
	return best, !best.IsNone()
}
