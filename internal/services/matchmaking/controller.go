package matchmaking

import (
	"context"
	"log/slog"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/syncutil"
)

// Outcome describes how a player ended up in a game
type Outcome string

const (
	OutcomeCreated Outcome = "created" // new waiting game, player is its only occupant
	OutcomeJoined  Outcome = "joined"  // player took the second seat and the game started
	OutcomeResumed Outcome = "resumed" // player already had an unfinished game in the grid
)

// Match is the game a player was placed into
type Match struct {
	Game    *model.Game
	Outcome Outcome
}

// Controller pairs players within a grid. All pairing decisions for a grid are
// serialised under the grid's lock, which is always taken before any game lock.
type Controller struct {
	games  *game.Controller
	locks  *syncutil.KeyedMutex
	logger *slog.Logger
}

// NewController creates a new matchmaking Controller
func NewController(games *game.Controller, logger *slog.Logger) *Controller {
	return &Controller{
		games:  games,
		locks:  syncutil.NewKeyedMutex(),
		logger: logger.With(slog.String("component", "matchmaking")),
	}
}

// JoinOrCreate places a newly connected player. A player with an unfinished game
// in the grid resumes it; otherwise they join the oldest waiting game opened by
// someone else, or open a new one.
func (c *Controller) JoinOrCreate(ctx context.Context, gridID model.GridID, playerID model.PlayerID) (*Match, error) {
	unlock := c.locks.Lock(string(gridID))
	defer unlock()

	games, err := c.games.GamesForGrid(ctx, gridID)
	if err != nil {
		return nil, err
	}

	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		if g.HasPlayer(playerID) && g.State != model.GameStateFinished {
			c.logger.Info("player resumed game",
				slog.String("grid_id", string(gridID)),
				slog.String("game_id", string(g.ID)),
				slog.String("player_id", string(playerID)),
			)
			return &Match{Game: g, Outcome: OutcomeResumed}, nil
		}
	}

	return c.pairOrCreate(ctx, games, gridID, playerID, func() (*model.Game, error) {
		return c.games.CreateWaitingGame(ctx, gridID, playerID)
	})
}

// Rematch handles a new game request from a player whose latest game in the grid
// has finished. If another player is already waiting in the grid the requester
// joins them; otherwise a new waiting game is opened. The latest game is resolved
// under the grid lock, so a repeated request sees the game the first one produced.
func (c *Controller) Rematch(ctx context.Context, gridID model.GridID, playerID model.PlayerID) (*Match, error) {
	unlock := c.locks.Lock(string(gridID))
	defer unlock()

	games, err := c.games.GamesForGrid(ctx, gridID)
	if err != nil {
		return nil, err
	}

	current := latestFor(games, playerID)
	if current == nil {
		return nil, model.ErrGameNotFound
	}
	if err := c.games.CheckRematch(ctx, current.ID, playerID); err != nil {
		return nil, err
	}

	return c.pairOrCreate(ctx, games, gridID, playerID, func() (*model.Game, error) {
		return c.games.Rematch(ctx, current.ID, playerID)
	})
}

func latestFor(games []*model.Game, playerID model.PlayerID) *model.Game {
	for i := len(games) - 1; i >= 0; i-- {
		if games[i].HasPlayer(playerID) {
			return games[i]
		}
	}
	return nil
}

func (c *Controller) pairOrCreate(
	ctx context.Context,
	games []*model.Game,
	gridID model.GridID,
	playerID model.PlayerID,
	create func() (*model.Game, error),
) (*Match, error) {
	for _, g := range games {
		if !g.IsWaiting() || g.HasPlayer(playerID) {
			continue
		}
		joined, err := c.games.Join(ctx, g.ID, playerID)
		if err != nil {
			return nil, err
		}
		c.logger.Info("players paired",
			slog.String("grid_id", string(gridID)),
			slog.String("game_id", string(joined.ID)),
			slog.String("player_id", string(playerID)),
		)
		return &Match{Game: joined, Outcome: OutcomeJoined}, nil
	}

	created, err := create()
	if err != nil {
		return nil, err
	}
	return &Match{Game: created, Outcome: OutcomeCreated}, nil
}
