package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/agent"
	"skirmish-server/internal/blueprint"
	"skirmish-server/internal/domain"
	"skirmish-server/internal/engine"
	"skirmish-server/internal/events"
	"skirmish-server/internal/infrastructure/storage"
	"skirmish-server/internal/server"
	"skirmish-server/internal/version"
	"skirmish-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		seed       int64
		dataDir    string
		enemies    int
		replayPath string
		simulate   string
		replayDir  string
	)
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Initial battle seed (0 for random)")
	flag.StringVar(&dataDir, "data", "", "Directory with enemies.yaml and player_classes.yaml (embedded data if empty)")
	flag.IntVar(&enemies, "enemies", 0, "Enemies per battle (0 for default)")
	flag.StringVar(&replayPath, "replay", "", "Path to .skrp replay file to play back")
	flag.StringVar(&simulate, "simulate", "", "Run one headless battle with a bot playing the given class")
	flag.StringVar(&replayDir, "replays", "", "Directory to save replays of finished battles")
	flag.Parse()

	logger.Log.Info("Starting Skirmish Server...")
	logger.Log.Info(version.Current().String())

	catalog, err := loadCatalog(dataDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load blueprints")
	}

	// Формируем конфиг
	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}
	if enemies > 0 {
		cfg.EnemyCount = enemies
	}

	var replays *storage.ReplayService
	if replayDir != "" {
		if replays, err = storage.NewReplayService(replayDir); err != nil {
			logger.Log.WithError(err).Fatal("Failed to prepare replay directory")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay Playback")
		runReplay(ctx, catalog, cfg, replayPath)
		return
	}

	// РЕЖИМ СИМУЛЯЦИИ
	if simulate != "" {
		logger.Log.Info("🤖 Mode: Headless Simulation")
		runSimulation(ctx, catalog, cfg, simulate, replays)
		return
	}

	port := os.Getenv("SK_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Запуск сервера
	srv := server.New(engine.NewService(catalog, cfg), replays, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("Shutdown error")
	}

	logger.Log.Info("Done.")
}

func loadCatalog(dir string) (*blueprint.Catalog, error) {
	// Реестр без генератора: каталогу нужна только проверка параметров
	checker := abilities.NewRegistry(nil)
	if dir == "" {
		return blueprint.Default(checker)
	}
	return blueprint.LoadDir(dir, checker)
}

// logSink пишет ход боя в лог (ключи сообщений без перевода).
func logSink(ev events.Event) {
	entry := logger.For("battle").WithField("event", ev.Name())
	switch e := ev.(type) {
	case events.BattleLog:
		entry.WithField("key", e.MessageKey).WithField("data", e.Data).Debug("Battle log")
	case events.BattleEnd:
		entry.WithFields(logrus.Fields{"result": e.Result, "aborted": e.Aborted}).Info("Battle ended")
	default:
		entry.Debug("Battle event")
	}
}

func runReplay(ctx context.Context, catalog *blueprint.Catalog, cfg engine.Config, path string) {
	session, err := storage.LoadFile(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load replay")
	}

	result, err := engine.Playback(ctx, catalog, cfg, session, logSink)
	if err != nil {
		logger.Log.WithError(err).Fatal("Playback failed")
	}
	logger.Log.WithFields(logrus.Fields{
		"seed":   session.Seed,
		"player": session.PlayerName,
		"result": result,
	}).Info("Replay finished")
}

func runSimulation(ctx context.Context, catalog *blueprint.Catalog, cfg engine.Config, className string, replays *storage.ReplayService) {
	class, err := domain.ParsePlayerClass(className)
	if err != nil {
		logger.Log.WithError(err).Fatal("Bad -simulate value")
	}

	var bot *agent.Bot
	game := engine.NewGameEngine("simulation", cfg.Instant(), catalog, func(ev events.Event) {
		logSink(ev)
		bot.Handle(ev)
	})
	bot = agent.NewBot(game.SubmitAction)

	if err := game.InitializeWorld(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize world")
	}
	if _, err := game.CreatePlayer(class, "Bot"); err != nil {
		logger.Log.WithError(err).Fatal("Failed to create player")
	}
	if err := game.StartGame(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Failed to start battle")
	}
	<-game.Done()

	result, err := game.Result()
	if err != nil {
		logger.Log.WithError(err).Error("Simulation aborted")
		return
	}
	logger.Log.WithField("result", result).Info("Simulation finished")

	if replays != nil {
		if _, err := replays.Save(game.Replay()); err != nil {
			logger.Log.WithError(err).Error("Failed to save replay")
		}
	}
}
