package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/gridbattle/internal/api"
	"github.com/mcoot/gridbattle/internal/factory"
)

func main() {
	loadDotEnv()

	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg serverConfig, logger *slog.Logger) error {
	cfg.Factory.Logger = logger
	app, err := factory.New(cfg.Factory)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	logger.Info("configuration loaded",
		slog.String("storage_type", cfg.Factory.StorageType),
		slog.Int("port", cfg.Server.Port),
		slog.Int("board_size", cfg.Factory.GameConfig.BoardSize),
		slog.Float64("berserk_probability", cfg.Factory.GameConfig.BerserkProbability))

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		PlayerService:  app.PlayerService,
		GameController: app.GameController,
		Coordinator:    app.Coordinator,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	server := api.NewServer(router, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}
