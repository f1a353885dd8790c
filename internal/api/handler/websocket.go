package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mcoot/gridbattle/internal/middleware"
	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/realtime"
	"github.com/mcoot/gridbattle/internal/services/player"
	"github.com/mcoot/gridbattle/internal/session"
)

// WebSocketHandler serves the per-player game channel
type WebSocketHandler struct {
	players     *player.Service
	coordinator *session.Coordinator
	upgrader    websocket.Upgrader
	config      realtime.ClientConfig
	logger      *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler. Browser origins are
// checked against allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(
	players *player.Service,
	coordinator *session.Coordinator,
	config realtime.ClientConfig,
	allowedOrigins []string,
	logger *slog.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		players:     players,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		config: config,
		logger: logger,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Serve handles GET /ws/{player_id}/{grid_id}
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := model.PlayerID(vars["player_id"])
	gridID := model.GridID(vars["grid_id"])

	// Reject unknown players before upgrading so they get a proper HTTP error
	if _, err := h.players.Get(r.Context(), playerID); err != nil {
		WriteError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an error response
		return
	}

	ctx := r.Context()
	logger := middleware.LoggerFrom(ctx, h.logger).With(
		slog.String("grid_id", string(gridID)),
		slog.String("player_id", string(playerID)),
	)
	client := realtime.NewClient(conn, h.config, logger)
	defer h.coordinator.Disconnect(ctx, gridID, playerID, client)

	if err := h.coordinator.Connect(ctx, gridID, playerID, client); err != nil {
		logger.Warn("connection rejected", slog.String("error", err.Error()))
		client.Close()
		client.Run(ctx, func([]byte) {})
		return
	}

	client.Run(ctx, func(data []byte) {
		if err := h.coordinator.HandleMessage(ctx, gridID, playerID, data); err != nil && ctx.Err() == nil {
			logger.Warn("message handling failed", slog.String("error", err.Error()))
		}
	})
}
