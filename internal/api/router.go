package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mcoot/gridbattle/internal/api/handler"
	apimiddleware "github.com/mcoot/gridbattle/internal/api/middleware"
	"github.com/mcoot/gridbattle/internal/middleware"
	"github.com/mcoot/gridbattle/internal/realtime"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/services/player"
	"github.com/mcoot/gridbattle/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	PlayerService  *player.Service
	GameController *game.Controller
	Coordinator    *session.Coordinator

	// AllowedOrigins applies to both CORS and websocket upgrades; empty allows any origin
	AllowedOrigins []string
	ClientConfig   realtime.ClientConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	clientConfig := cfg.ClientConfig
	if clientConfig == (realtime.ClientConfig{}) {
		clientConfig = realtime.DefaultClientConfig()
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(cfg.Logger))

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.Coordinator)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	wsHandler := handler.NewWebSocketHandler(cfg.PlayerService, cfg.Coordinator, clientConfig, origins, cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// Player routes; the literal path must be registered before {id}
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players/online/count", playerHandler.OnlineCount).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)

	// Game routes are read-only; play happens over the websocket
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/grids/{grid_id}/games", gameHandler.ListForGrid).Methods(http.MethodGet)

	// The websocket route skips the JSON recovery handler: after the upgrade
	// there is no HTTP response left to write.
	r.HandleFunc("/ws/{player_id}/{grid_id}", wsHandler.Serve).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Location"},
	})
	return c.Handler(r)
}
