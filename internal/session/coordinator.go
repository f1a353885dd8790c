package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/realtime"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/services/matchmaking"
	"github.com/mcoot/gridbattle/internal/services/player"
)

// Config tunes the coordinator
type Config struct {
	// StoreTimeout bounds each storage-backed operation triggered by a connection
	StoreTimeout time.Duration
}

// DefaultConfig returns standard coordinator settings
func DefaultConfig() Config {
	return Config{
		StoreTimeout: 5 * time.Second,
	}
}

// Coordinator drives a player's connection lifecycle: registration and
// matchmaking on connect, message dispatch while connected, and cleanup on
// disconnect. Broadcasts always happen after the game transition has been
// persisted and its lock released.
type Coordinator struct {
	players     *player.Service
	games       *game.Controller
	matchmaking *matchmaking.Controller
	registry    *realtime.Registry
	config      Config
	logger      *slog.Logger
}

// NewCoordinator creates a new session Coordinator
func NewCoordinator(
	players *player.Service,
	games *game.Controller,
	matchmaking *matchmaking.Controller,
	registry *realtime.Registry,
	config Config,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		players:     players,
		games:       games,
		matchmaking: matchmaking,
		registry:    registry,
		config:      config,
		logger:      logger.With(slog.String("component", "session")),
	}
}

func (c *Coordinator) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.config.StoreTimeout)
}

// Connect admits a player's connection to a grid. Unknown players are rejected
// before registration. Any previous connection for the same player and grid is
// closed. On success the player has been placed into a game and notified.
func (c *Coordinator) Connect(ctx context.Context, gridID model.GridID, playerID model.PlayerID, conn realtime.Conn) error {
	storeCtx, cancel := c.storeContext(ctx)
	defer cancel()

	if _, err := c.players.Get(storeCtx, playerID); err != nil {
		return err
	}

	if previous := c.registry.Register(gridID, playerID, conn); previous != nil {
		previous.Close()
	}
	c.setOnline(storeCtx, playerID, true)

	match, err := c.matchmaking.JoinOrCreate(storeCtx, gridID, playerID)
	if err != nil {
		c.logger.Error("matchmaking failed",
			slog.String("grid_id", string(gridID)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
		return err
	}

	c.logger.Info("player connected",
		slog.String("grid_id", string(gridID)),
		slog.String("player_id", string(playerID)),
		slog.String("game_id", string(match.Game.ID)),
		slog.String("outcome", string(match.Outcome)),
		slog.Int("grid_connections", c.registry.GridCount(gridID)))

	switch match.Outcome {
	case matchmaking.OutcomeJoined:
		c.registry.Broadcast(gridID, model.GameEvent{Type: model.MessageGameStarted, Game: match.Game})
	default:
		c.sendState(gridID, playerID, match.Game)
	}
	return nil
}

// HandleMessage dispatches one inbound message from a connected player.
// Malformed messages, unknown types and invalid moves are dropped without error.
func (c *Coordinator) HandleMessage(ctx context.Context, gridID model.GridID, playerID model.PlayerID, data []byte) error {
	var msg model.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Debug("malformed message dropped",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
		return nil
	}

	storeCtx, cancel := c.storeContext(ctx)
	defer cancel()

	var err error
	switch msg.Type {
	case model.MessageShot:
		err = c.handleShot(storeCtx, gridID, playerID, msg.Position)
	case model.MessageNewGame:
		err = c.handleNewGame(storeCtx, gridID, playerID)
	default:
		c.logger.Debug("unknown message type ignored",
			slog.String("player_id", string(playerID)),
			slog.String("type", string(msg.Type)))
		return nil
	}

	if errors.Is(err, model.ErrInvalidMove) || errors.Is(err, model.ErrGameNotFound) {
		c.logger.Debug("move dropped",
			slog.String("grid_id", string(gridID)),
			slog.String("player_id", string(playerID)),
			slog.String("type", string(msg.Type)),
			slog.String("reason", err.Error()))
		return nil
	}
	return err
}

func (c *Coordinator) handleShot(ctx context.Context, gridID model.GridID, playerID model.PlayerID, position string) error {
	current, err := c.games.CurrentGame(ctx, gridID, playerID)
	if err != nil {
		return err
	}

	shot, err := c.games.Fire(ctx, current.ID, playerID, position)
	if err != nil {
		return err
	}

	c.registry.Broadcast(gridID, model.ShotResultEvent{
		Type:          model.MessageShotResult,
		Position:      shot.Position,
		Hit:           shot.Result.Hit,
		Destroyed:     shot.Result.Destroyed,
		ShipDestroyed: shot.Result.ShipDestroyed,
		Game:          shot.Game,
	})
	return nil
}

func (c *Coordinator) handleNewGame(ctx context.Context, gridID model.GridID, playerID model.PlayerID) error {
	match, err := c.matchmaking.Rematch(ctx, gridID, playerID)
	if err != nil {
		return err
	}

	msgType := model.MessageNewGameCreated
	if match.Outcome == matchmaking.OutcomeJoined {
		msgType = model.MessageGameStarted
	}
	c.registry.Broadcast(gridID, model.GameEvent{Type: msgType, Game: match.Game})
	return nil
}

// Disconnect releases the connection's registry entry and marks the player
// offline. A connection that was already replaced leaves presence untouched.
func (c *Coordinator) Disconnect(ctx context.Context, gridID model.GridID, playerID model.PlayerID, conn realtime.Conn) {
	if !c.registry.Deregister(gridID, playerID, conn) {
		return
	}
	c.logger.Info("player disconnected",
		slog.String("grid_id", string(gridID)),
		slog.String("player_id", string(playerID)))

	// the request context is usually already cancelled by now
	storeCtx, cancel := c.storeContext(context.WithoutCancel(ctx))
	defer cancel()
	c.setOnline(storeCtx, playerID, false)
}

// OnlineCount returns the number of live connections across all grids
func (c *Coordinator) OnlineCount() int {
	return c.registry.Count()
}

func (c *Coordinator) sendState(gridID model.GridID, playerID model.PlayerID, g *model.Game) {
	err := c.registry.Send(gridID, playerID, model.GameEvent{Type: model.MessageGameState, Game: g})
	if err != nil {
		c.logger.Warn("failed to send game state",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
	}
}

func (c *Coordinator) setOnline(ctx context.Context, playerID model.PlayerID, online bool) {
	if err := c.players.SetOnline(ctx, playerID, online); err != nil {
		c.logger.Warn("failed to update presence",
			slog.String("player_id", string(playerID)),
			slog.Bool("online", online),
			slog.String("error", err.Error()))
	}
}
