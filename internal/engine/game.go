package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/blueprint"
	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoPlayer      = errors.New("player is not created")
	ErrBattleRunning = errors.New("battle already running")
	ErrPlayerDead    = errors.New("player is dead")
)

// GameEngine — одна игровая сессия: свой мир, свой игрок, свой генератор.
// Бой идет в отдельной горутине; снаружи доступны только методы ниже.
type GameEngine struct {
	ID      string
	cfg     Config
	catalog *blueprint.Catalog
	sink    Sink
	log     *logrus.Entry

	mu       sync.Mutex
	world    *domain.World
	rng      *rand.Rand
	registry *abilities.Registry
	factory  *EntityFactory
	playerID domain.EntityID

	resolver *BattleResolver
	cancel   context.CancelFunc
	done     chan struct{}
	result   domain.BattleResult
	err      error

	replay domain.ReplaySession
}

func NewGameEngine(id string, cfg Config, catalog *blueprint.Catalog, sink Sink) *GameEngine {
	if sink == nil {
		sink = func(events.Event) {}
	}
	done := make(chan struct{})
	close(done) // Боя еще нет — ждать нечего
	return &GameEngine{
		ID:      id,
		cfg:     cfg,
		catalog: catalog,
		sink:    sink,
		log:     logger.For("game_engine").WithField("session_id", id),
		done:    done,
	}
}

// InitializeWorld создает новый мир и общие способности.
func (g *GameEngine) InitializeWorld() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolver != nil && !g.finished() {
		return ErrBattleRunning
	}

	g.world = domain.NewWorld()
	g.rng = rand.New(rand.NewSource(g.cfg.Seed))
	g.registry = abilities.NewRegistry(g.rng)
	if err := g.registry.CreateShared(g.world); err != nil {
		return err
	}
	g.factory = NewEntityFactory(g.catalog, g.registry, g.rng)
	g.playerID = domain.NoEntity
	g.resolver = nil
	g.replay = domain.ReplaySession{
		Seed:       g.cfg.Seed,
		Timestamp:  time.Now().Unix(),
		EnemyCount: g.cfg.EnemyCount,
	}

	g.log.WithField("seed", g.cfg.Seed).Info("World initialized")
	return nil
}

// CreatePlayer создает персонажа. Требует InitializeWorld.
func (g *GameEngine) CreatePlayer(class domain.PlayerClass, name string) (domain.EntityID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.world == nil {
		return domain.NoEntity, fmt.Errorf("create player: world is not initialized")
	}
	// Мир принадлежит горутине боя до его конца
	if g.resolver != nil && !g.finished() {
		return domain.NoEntity, ErrBattleRunning
	}
	id, err := g.factory.CreatePlayer(g.world, class, name)
	if err != nil {
		return domain.NoEntity, err
	}
	g.playerID = id
	g.replay.Class = class
	g.replay.PlayerName = name

	g.log.WithFields(logrus.Fields{
		"player_id": id,
		"class":     class,
	}).Info("Player created")
	return id, nil
}

// StartGame запускает бой в отдельной горутине и сразу возвращается.
// По завершении в sink уходит BattleEnd (Aborted=true при отмене или ошибке).
func (g *GameEngine) StartGame(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.playerID.IsNone() {
		return ErrNoPlayer
	}
	if g.resolver != nil && !g.finished() {
		return ErrBattleRunning
	}
	if !domain.HasComponent[domain.IsAlive](g.world, g.playerID) {
		return ErrPlayerDead
	}

	resolver := NewBattleResolver(g.world, g.factory, g.cfg, g.playerID, g.sink)
	resolver.record = g.recordAction

	battleCtx, cancel := context.WithCancel(ctx)
	g.resolver = resolver
	g.cancel = cancel
	g.done = make(chan struct{})
	g.result, g.err = 0, nil

	go g.run(battleCtx, resolver, g.done)
	return nil
}

func (g *GameEngine) run(ctx context.Context, resolver *BattleResolver, done chan struct{}) {
	defer close(done)

	result, err := resolver.Run(ctx)

	g.mu.Lock()
	g.result, g.err = result, err
	g.mu.Unlock()

	g.sink(events.BattleEnd{Result: result, Aborted: err != nil})
}

// SubmitAction передает действие игрока в текущий бой.
func (g *GameEngine) SubmitAction(act events.PlayerAction) error {
	g.mu.Lock()
	resolver := g.resolver
	g.mu.Unlock()

	if resolver == nil {
		return ErrNoBattle
	}
	select {
	case <-g.Done():
		return ErrNoBattle
	default:
	}
	return resolver.SubmitAction(act)
}

// StopGame отменяет бой и ждет завершения горутины.
func (g *GameEngine) StopGame() {
	g.mu.Lock()
	cancel := g.cancel
	done := g.done
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Done закрывается, когда текущий бой завершен.
func (g *GameEngine) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Result — итог последнего боя. Имеет смысл после Done.
func (g *GameEngine) Result() (domain.BattleResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result, g.err
}

// PlayerID — сущность игрока (NoEntity, если не создан).
func (g *GameEngine) PlayerID() domain.EntityID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerID
}

// Replay — копия записанной сессии (для сохранения на диск).
func (g *GameEngine) Replay() domain.ReplaySession {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.replay
	out.Actions = append([]domain.ReplayAction(nil), g.replay.Actions...)
	return out
}

// Status — краткое состояние сессии для отладки.
type Status struct {
	ID       string          `json:"id"`
	PlayerID domain.EntityID `json:"playerId"`
	Player   string          `json:"player,omitempty"`
	Class    string          `json:"class,omitempty"`
	Running  bool            `json:"running"`
	Awaiting bool            `json:"awaitingInput"`
	Turn     int             `json:"turn"`
	Actions  int             `json:"actions"`
}

func (g *GameEngine) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Status{
		ID:       g.ID,
		PlayerID: g.playerID,
		Player:   g.replay.PlayerName,
		Actions:  len(g.replay.Actions),
	}
	if !g.playerID.IsNone() {
		s.Class = g.replay.Class.String()
	}
	if g.resolver != nil {
		s.Running = !g.finished()
		s.Awaiting = g.resolver.AwaitingInput()
		s.Turn = g.resolver.Turn()
	}
	return s
}

func (g *GameEngine) recordAction(turn int, act events.PlayerAction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replay.Actions = append(g.replay.Actions, domain.ReplayAction{
		Turn:      turn,
		AbilityID: act.AbilityID,
		EntityID:  act.EntityID,
		TargetID:  act.TargetID,
	})
}

// finished вызывается под g.mu.
func (g *GameEngine) finished() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}
