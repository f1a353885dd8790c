package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/gridbattle/internal/api"
	"github.com/mcoot/gridbattle/internal/factory"
	"github.com/mcoot/gridbattle/internal/services/board"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/session"
	redisstorage "github.com/mcoot/gridbattle/internal/storage/redis"
	sqlitestorage "github.com/mcoot/gridbattle/internal/storage/sqlite"
)

// serverConfig is everything the process reads from its environment
type serverConfig struct {
	LogLevel       slog.Level
	Server         api.ServerConfig
	Factory        factory.Config
	AllowedOrigins []string
}

// loadDotEnv reads an optional .env file into the environment
func loadDotEnv() {
	// a missing file is normal; real environment variables take precedence
	_ = godotenv.Load()
}

// loadConfig builds the server configuration from environment variables
func loadConfig(getenv func(string) string) (serverConfig, error) {
	env := envReader{getenv: getenv}

	cfg := serverConfig{
		Server: api.DefaultServerConfig(),
		Factory: factory.Config{
			StorageType:   env.str("STORAGE_TYPE", factory.StorageTypeMemory),
			BoardConfig:   board.DefaultConfig(),
			GameConfig:    game.DefaultConfig(),
			SessionConfig: session.DefaultConfig(),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(env.str("LOG_LEVEL", "info"))); err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg.Server.Host = env.str("HOST", cfg.Server.Host)
	cfg.Server.Port = env.int("PORT", cfg.Server.Port)

	switch cfg.Factory.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.str("REDIS_URL", "")
		if redisCfg.URL == "" {
			return cfg, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		cfg.Factory.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		sqliteCfg.Path = env.str("SQLITE_PATH", sqliteCfg.Path)
		cfg.Factory.SQLiteConfig = &sqliteCfg
	}

	cfg.Factory.GameConfig.BoardSize = env.int("BOARD_SIZE", cfg.Factory.GameConfig.BoardSize)
	cfg.Factory.GameConfig.BerserkProbability = env.float("BERSERK_PROBABILITY", cfg.Factory.GameConfig.BerserkProbability)
	cfg.Factory.BoardConfig.ShipCountDivisor = env.int("SHIP_COUNT_DIVISOR", cfg.Factory.BoardConfig.ShipCountDivisor)
	cfg.Factory.BoardConfig.MaxShipSpan = env.int("MAX_SHIP_SPAN", cfg.Factory.BoardConfig.MaxShipSpan)
	cfg.Factory.SessionConfig.StoreTimeout = env.duration("STORE_TIMEOUT", cfg.Factory.SessionConfig.StoreTimeout)

	if origins := env.str("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if err := env.err(); err != nil {
		return cfg, err
	}
	if p := cfg.Factory.GameConfig.BerserkProbability; p < 0 || p > 1 {
		return cfg, fmt.Errorf("BERSERK_PROBABILITY must be within [0, 1], got %v", p)
	}
	if err := cfg.Factory.BoardConfig.Validate(cfg.Factory.GameConfig.BoardSize); err != nil {
		return cfg, fmt.Errorf("BOARD_SIZE, SHIP_COUNT_DIVISOR and MAX_SHIP_SPAN: %w", err)
	}
	return cfg, nil
}

// envReader parses typed values and remembers the first malformed one
type envReader struct {
	getenv func(string) string
	first  error
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return n
}

func (e *envReader) float(key string, fallback float64) float64 {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return f
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return d
}

func (e *envReader) fail(key string, err error) {
	if e.first == nil {
		e.first = fmt.Errorf("%s: %w", key, err)
	}
}

func (e *envReader) err() error {
	return e.first
}

