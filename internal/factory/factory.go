package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/gridbattle/internal/dependencies/clock"
	"github.com/mcoot/gridbattle/internal/dependencies/random"
	"github.com/mcoot/gridbattle/internal/realtime"
	"github.com/mcoot/gridbattle/internal/services/board"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/services/matchmaking"
	"github.com/mcoot/gridbattle/internal/services/player"
	"github.com/mcoot/gridbattle/internal/session"
	"github.com/mcoot/gridbattle/internal/storage"
	"github.com/mcoot/gridbattle/internal/storage/memory"
	redisstorage "github.com/mcoot/gridbattle/internal/storage/redis"
	sqlitestorage "github.com/mcoot/gridbattle/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PlayerService         *player.Service
	GameController        *game.Controller
	MatchmakingController *matchmaking.Controller
	Registry              *realtime.Registry
	Coordinator           *session.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds database settings (required if StorageType is "sqlite")
	SQLiteConfig *sqlitestorage.Config

	// Zero values fall back to each component's DefaultConfig
	BoardConfig   board.Config
	GameConfig    game.Config
	SessionConfig session.Config
}

func (c Config) withDefaults() Config {
	if c.BoardConfig == (board.Config{}) {
		c.BoardConfig = board.DefaultConfig()
	}
	if c.GameConfig == (game.Config{}) {
		c.GameConfig = game.DefaultConfig()
	}
	if c.SessionConfig == (session.Config{}) {
		c.SessionConfig = session.DefaultConfig()
	}
	return c
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg = cfg.withDefaults()
	if err := cfg.BoardConfig.Validate(cfg.GameConfig.BoardSize); err != nil {
		return nil, err
	}

	store, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	generator := board.NewGenerator(cfg.BoardConfig, rnd)

	return newWithDependencies(store, clk, rnd, generator, cfg, logger), nil
}

func newStorage(cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		return sqlitestorage.New(*cfg.SQLiteConfig, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	generator board.Generator,
	cfg Config,
	logger *slog.Logger,
) *App {
	playerService := player.New(store, clk, logger)
	gameController := game.NewController(store, generator, playerService, cfg.GameConfig, clk, rnd, logger)
	matchmakingController := matchmaking.NewController(gameController, logger)
	registry := realtime.NewRegistry(logger)
	coordinator := session.NewCoordinator(playerService, gameController, matchmakingController, registry, cfg.SessionConfig, logger)

	return &App{
		Storage:               store,
		Clock:                 clk,
		Random:                rnd,
		PlayerService:         playerService,
		GameController:        gameController,
		MatchmakingController: matchmakingController,
		Registry:              registry,
		Coordinator:           coordinator,
	}
}

// Close releases the storage backend's connections, if it holds any
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
