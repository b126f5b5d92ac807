package engine

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"skirmish-server/internal/blueprint"
	"skirmish-server/pkg/logger"
)

// GameService — реестр игровых сессий процесса.
// Каталог блюпринтов общий, мир и генератор у каждой сессии свои.
type GameService struct {
	Catalog *blueprint.Catalog
	cfg     Config

	mu       sync.RWMutex
	sessions map[string]*GameEngine
	seq      atomic.Uint64
}

func NewService(catalog *blueprint.Catalog, cfg Config) *GameService {
	return &GameService{
		Catalog:  catalog,
		cfg:      cfg,
		sessions: make(map[string]*GameEngine),
	}
}

// Config — базовый конфиг, с которым создаются сессии.
func (s *GameService) Config() Config {
	return s.cfg
}

// Create регистрирует новую сессию. Если seed == 0, берется сид из базового конфига
// со сдвигом на номер сессии, чтобы сессии не повторяли друг друга.
func (s *GameService) Create(seed int64, sink Sink) (*GameEngine, error) {
	n := s.seq.Add(1)
	id := fmt.Sprintf("session_%d", n)

	cfg := s.cfg
	if seed != 0 {
		cfg.Seed = seed
	} else {
		cfg.Seed += int64(n)
	}

	game := NewGameEngine(id, cfg, s.Catalog, sink)
	if err := game.InitializeWorld(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[id] = game
	s.mu.Unlock()

	logger.For("game_service").WithField("session_id", id).Info("Session created")
	return game, nil
}

// Get возвращает сессию по ID.
func (s *GameService) Get(id string) (*GameEngine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.sessions[id]
	return game, ok
}

// Remove останавливает бой сессии (если он идет) и удаляет ее.
func (s *GameService) Remove(id string) {
	s.mu.Lock()
	game, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return
	}
	game.StopGame()
	logger.For("game_service").WithField("session_id", id).Info("Session removed")
}

// Sessions — состояние всех сессий, отсортированное по ID.
func (s *GameService) Sessions() []Status {
	s.mu.RLock()
	games := make([]*GameEngine, 0, len(s.sessions))
	for _, game := range s.sessions {
		games = append(games, game)
	}
	s.mu.RUnlock()

	result := make([]Status, 0, len(games))
	for _, game := range games {
		result = append(result, game.Status())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Shutdown останавливает все сессии.
func (s *GameService) Shutdown() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.Remove(id)
	}
}
