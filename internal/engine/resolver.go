package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/internal/systems"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotPlayerTurn = errors.New("not player turn")
	ErrActionPending = errors.New("action already pending")
	ErrNoBattle      = errors.New("no battle in progress")
)

// Ключи сообщений, которые формирует сам резолвер.
const (
	MsgInvalidAction = "battle.invalid_action"
	MsgTurnSkipped   = "battle.turn_skipped"
)

// Sink получает события боя по одному, в порядке возникновения.
// Вызывается из горутины боя.
type Sink func(ev events.Event)

// BattleResolver проводит один бой: подготовка, цикл ходов, итог.
// Мир трогает только горутина Run; снаружи доступен лишь SubmitAction.
type BattleResolver struct {
	world    *domain.World
	factory  *EntityFactory
	cfg      Config
	sink     Sink
	playerID domain.EntityID
	log      *logrus.Entry

	actions  chan events.PlayerAction // Емкость 1: не больше одного действия на ход
	turnOpen atomic.Bool
	turn     atomic.Int64

	pending []events.Event
	enemies []domain.EntityID

	// record вызывается на каждое полученное действие игрока (и корректное, и нет).
	record func(turn int, act events.PlayerAction)
}

func NewBattleResolver(w *domain.World, factory *EntityFactory, cfg Config, playerID domain.EntityID, sink Sink) *BattleResolver {
	if sink == nil {
		sink = func(events.Event) {}
	}
	return &BattleResolver{
		world:    w,
		factory:  factory,
		cfg:      cfg,
		sink:     sink,
		playerID: playerID,
		log:      logger.For("battle_resolver").WithField("player_id", playerID),
		actions:  make(chan events.PlayerAction, 1),
	}
}

// SubmitAction передает действие игрока в бой. Не блокирует.
// Проверка самого действия происходит в горутине боя.
func (r *BattleResolver) SubmitAction(act events.PlayerAction) error {
	if !r.turnOpen.Load() {
		return ErrNotPlayerTurn
	}
	select {
	case r.actions <- act:
		return nil
	default:
		return ErrActionPending
	}
}

// AwaitingInput — сейчас ход игрока и бой ждет действие.
func (r *BattleResolver) AwaitingInput() bool {
	return r.turnOpen.Load()
}

// Turn — номер текущего хода (с 1).
func (r *BattleResolver) Turn() int {
	return int(r.turn.Load())
}

// Enemies — враги, созданные для этого боя.
func (r *BattleResolver) Enemies() []domain.EntityID {
	return slices.Clone(r.enemies)
}

// Run проводит бой до конца.
// При отмене контекста или нарушении инварианта мертвые враги все равно убираются из мира,
// а ошибка возвращается вызывающему.
func (r *BattleResolver) Run(ctx context.Context) (result domain.BattleResult, err error) {
	defer func() {
		r.turnOpen.Store(false)
		if cleanupErr := r.cleanup(); cleanupErr != nil && err == nil {
			err = cleanupErr
		}
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			r.log.Info("Battle cancelled")
		case err != nil:
			r.log.WithError(err).Error("Battle aborted")
		}
	}()

	if err := r.prepare(ctx); err != nil {
		return 0, err
	}

	for {
		if err := r.cycle(ctx); err != nil {
			return 0, err
		}
		if r.isOver() {
			break
		}
		if err := sleep(ctx, r.cfg.TurnDelay); err != nil {
			return 0, err
		}
	}

	result = domain.Defeat
	if domain.HasComponent[domain.IsAlive](r.world, r.playerID) {
		result = domain.Victory
	}
	r.log.WithFields(logrus.Fields{
		"result": result,
		"turns":  r.Turn(),
	}).Info("Battle finished")
	return result, nil
}

// prepare: враги, очередь ходов, снимок ростера и "флейвор" каждого врага.
func (r *BattleResolver) prepare(ctx context.Context) error {
	count := max(1, r.cfg.EnemyCount)
	enemies, err := r.factory.GenerateEnemies(r.world, count, r.cfg.SimpleEnemyFirst, r.cfg.DefaultEnemyID)
	if err != nil {
		return err
	}
	r.enemies = enemies

	if err := systems.SubscribeForFight(r.world, append([]domain.EntityID{r.playerID}, enemies...)...); err != nil {
		return err
	}

	heroes, err := systems.WrapEntities(r.world, []domain.EntityID{r.playerID})
	if err != nil {
		return err
	}
	foes, err := systems.WrapEntities(r.world, enemies)
	if err != nil {
		return err
	}
	r.queue(events.StartBattle{Heroes: heroes, Enemies: foes})

	for _, id := range enemies {
		loc, err := domain.Require[*domain.Localization](r.world, id)
		if err != nil {
			return err
		}
		r.queue(events.Log(loc.FlairKey, nil))
	}

	r.log.WithField("enemies", len(enemies)).Info("Battle started")

	if err := r.flush(ctx); err != nil {
		return err
	}
	return sleep(ctx, r.cfg.StartDelay)
}

// cycle — один ход: выбор актора, баффы, действие, смерти, продвижение очереди.
func (r *BattleResolver) cycle(ctx context.Context) error {
	turn := int(r.turn.Add(1))

	actorID, actionValue, err := systems.StartTurn(r.world)
	if err != nil {
		return err
	}

	ended, err := systems.UpdateBuffs(r.world, actorID)
	if err != nil {
		return err
	}
	for _, key := range ended {
		r.queue(events.Log(domain.MsgBuffEnd, map[string]any{
			"NAME": systems.NameOf(r.world, actorID),
			"BUFF": events.KeyRef{Key: key},
		}))
	}

	r.log.WithFields(logrus.Fields{"turn": turn, "actor_id": actorID}).Debug("Turn started")

	if actorID == r.playerID {
		if err := r.playerTurn(ctx, turn); err != nil {
			return err
		}
	} else if err := r.automatedTurn(actorID); err != nil {
		return err
	}

	dead, err := systems.ProcessDeaths(r.world)
	if err != nil {
		return err
	}
	for _, id := range dead {
		r.queue(
			events.EntityDeath{EntityID: id},
			events.Log(domain.MsgDeadReminder, map[string]any{"NAME": systems.NameOf(r.world, id)}),
		)
	}

	// После последней смерти планировать уже некого
	if !r.isOver() {
		if err := systems.EndTurn(r.world, actorID, actionValue); err != nil {
			return err
		}
	}

	return r.flush(ctx)
}

// playerTurn открывает ход, ждет действие и проверяет его.
// Некорректное действие повторно открывает ход; после MaxInputAttempts попыток ход завершается без действия.
func (r *BattleResolver) playerTurn(ctx context.Context, turn int) error {
	attempts := max(1, r.cfg.MaxInputAttempts)

	for attempt := 1; attempt <= attempts; attempt++ {
		views, err := abilities.WrapAbilities(r.world, r.playerID)
		if err != nil {
			return err
		}
		upcoming, err := PreviewTurnOrder(r.world, r.cfg.PreviewDepth)
		if err != nil {
			return err
		}

		r.openTurn()
		r.queue(events.StartPlayerTurn{EntityID: r.playerID, Abilities: views, Upcoming: upcoming})
		if err := r.flush(ctx); err != nil {
			return err
		}

		var act events.PlayerAction
		select {
		case <-ctx.Done():
			return ctx.Err()
		case act = <-r.actions:
		}
		r.turnOpen.Store(false)

		if r.record != nil {
			r.record(turn, act)
		}

		ab, targetID, reason := r.validate(act)
		if reason != "" {
			r.log.WithFields(logrus.Fields{
				"turn":       turn,
				"attempt":    attempt,
				"ability_id": act.AbilityID,
				"target_id":  act.TargetID,
				"reason":     reason,
			}).Warn("Rejected player action")
			r.queue(events.Log(MsgInvalidAction, map[string]any{"ATTEMPTS_LEFT": attempts - attempt}))
			continue
		}

		evs, err := ab.Execute(r.world, r.playerID, targetID)
		if err != nil {
			return err
		}
		r.queue(evs...)
		r.queue(events.EndPlayerTurn{})
		return nil
	}

	r.log.WithField("turn", turn).Warn("Player turn force-ended after invalid input")
	r.queue(events.Log(MsgTurnSkipped, map[string]any{"NAME": systems.NameOf(r.world, r.playerID)}))
	r.queue(events.EndPlayerTurn{})
	return nil
}

// openTurn выбрасывает устаревшее действие (пришедшее между ходами) и открывает прием.
func (r *BattleResolver) openTurn() {
	select {
	case <-r.actions:
	default:
	}
	r.turnOpen.Store(true)
}

// validate проверяет действие игрока по его реальному набору способностей.
// Возвращает причину отказа или пустую строку.
func (r *BattleResolver) validate(act events.PlayerAction) (abilities.Ability, domain.EntityID, string) {
	if act.EntityID != r.playerID {
		return nil, domain.NoEntity, fmt.Sprintf("entity %s is not the acting player", act.EntityID)
	}
	comp, ok, err := domain.Get[*abilities.Component](r.world, r.playerID)
	if err != nil || !ok {
		return nil, domain.NoEntity, "player has no abilities"
	}
	ab, ok := comp.ByID[act.AbilityID]
	if !ok {
		return nil, domain.NoEntity, fmt.Sprintf("ability %s is not owned by player", act.AbilityID)
	}

	targetID := act.TargetID
	if targetID.IsNone() && ab.Scope() == domain.ScopeSelf {
		targetID = r.playerID
	}
	if targetID.IsNone() {
		return nil, domain.NoEntity, "target is required"
	}

	valid, err := systems.GetValidTargetSet(r.world, r.playerID, ab.Scope())
	if err != nil || !slices.Contains(valid, targetID) {
		return nil, domain.NoEntity, fmt.Sprintf("target %s is out of scope %s", targetID, ab.Scope())
	}
	available, err := ab.IsAvailable(r.world, r.playerID, targetID)
	if err != nil || !available {
		return nil, domain.NoEntity, fmt.Sprintf("ability %s is not available", ab.Key())
	}
	return ab, targetID, ""
}

// automatedTurn — ход ИИ: лучшая по полезности пара способность/цель.
// Нет способностей или целей — ход пропускается.
func (r *BattleResolver) automatedTurn(actorID domain.EntityID) error {
	comp, _, err := domain.Get[*abilities.Component](r.world, actorID)
	if err != nil {
		return err
	}
	choice, ok, err := abilities.SelectAction(r.world, comp, actorID)
	if err != nil {
		return err
	}
	if !ok {
		r.log.WithField("actor_id", actorID).Debug("No action available, turn skipped")
		return nil
	}

	r.log.WithFields(logrus.Fields{
		"actor_id":  actorID,
		"ability":   choice.Ability.Kind(),
		"target_id": choice.TargetID,
		"utility":   choice.Utility,
	}).Debug("Automated action chosen")

	evs, err := choice.Ability.Execute(r.world, actorID, choice.TargetID)
	if err != nil {
		return err
	}
	r.queue(evs...)
	return nil
}

var livingEnemies = []domain.ComponentType{
	domain.TypeOf[domain.IsEnemy](),
	domain.TypeOf[domain.InBattle](),
	domain.TypeOf[domain.IsAlive](),
}

func (r *BattleResolver) isOver() bool {
	if !domain.HasComponent[domain.IsAlive](r.world, r.playerID) {
		return true
	}
	return len(r.world.With(livingEnemies...)) == 0
}

// cleanup убирает мертвых врагов и снимает с выживших участников состояние боя.
func (r *BattleResolver) cleanup() error {
	if err := systems.ClearEnemyEntities(r.world); err != nil {
		return err
	}
	for _, id := range append([]domain.EntityID{r.playerID}, r.enemies...) {
		if !r.world.Exists(id) {
			continue
		}
		if err := domain.Remove[domain.InBattle](r.world, id); err != nil {
			return err
		}
		if err := domain.Remove[*domain.Speed](r.world, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *BattleResolver) queue(evs ...events.Event) {
	r.pending = append(r.pending, evs...)
}

// flush отдает накопленные события по одному с паузой EventDelay.
func (r *BattleResolver) flush(ctx context.Context) error {
	batch := r.pending
	r.pending = nil
	for i, ev := range batch {
		if i > 0 {
			if err := sleep(ctx, r.cfg.EventDelay); err != nil {
				return err
			}
		}
		r.sink(ev)
	}
	return ctx.Err()
}

// sleep — пауза, прерываемая отменой контекста.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
