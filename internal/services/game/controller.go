package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/gridbattle/internal/dependencies/clock"
	"github.com/mcoot/gridbattle/internal/dependencies/random"
	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/services/board"
	"github.com/mcoot/gridbattle/internal/storage"
	"github.com/mcoot/gridbattle/internal/syncutil"
)

const (
	gameIDLength   = 12
	gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	gameIDAttempts = 3
)

// ScoreRecorder credits points to a player's profile
type ScoreRecorder interface {
	AddScore(ctx context.Context, playerID model.PlayerID, points int) error
}

// Shot is the outcome of one accepted shot
type Shot struct {
	Position model.Position
	Result   model.ShotResult
	Game     *model.Game
}

// Controller runs the game state machine: waiting -> in_progress -> finished.
// Every transition on a game happens under that game's lock and is persisted
// before the lock is released.
type Controller struct {
	storage   storage.Storage
	generator board.Generator
	scores    ScoreRecorder
	config    Config
	clock     clock.Clock
	random    random.Random
	locks     *syncutil.KeyedMutex
	logger    *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	generator board.Generator,
	scores ScoreRecorder,
	config Config,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		generator: generator,
		scores:    scores,
		config:    config,
		clock:     clock,
		random:    random,
		locks:     syncutil.NewKeyedMutex(),
		logger:    logger.With(slog.String("component", "game")),
	}
}

// CreateWaitingGame opens a new game in the grid with the player as its only occupant
func (c *Controller) CreateWaitingGame(ctx context.Context, gridID model.GridID, playerID model.PlayerID) (*model.Game, error) {
	now := c.clock.Now()
	game := &model.Game{
		GridID:    gridID,
		State:     model.GameStateWaiting,
		Players:   []model.PlayerID{playerID},
		Boards:    make(map[model.PlayerID]*model.Board),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	for range gameIDAttempts {
		game.ID = model.GameID(c.random.String(gameIDLength, gameIDAlphabet))
		if err = c.storage.CreateGame(ctx, game); !errors.Is(err, model.ErrGameExists) {
			break
		}
	}
	if err != nil {
		c.logger.Error("failed to create game",
			slog.String("grid_id", string(gridID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("grid_id", string(gridID)),
		slog.String("player_id", string(playerID)),
	)
	return game, nil
}

// Join seats a second player, deals both boards and starts the game.
// The first player to have joined takes the first turn.
func (c *Controller) Join(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.locks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsWaiting() {
		return nil, model.ErrGameNotWaiting
	}
	if game.HasPlayer(playerID) {
		return nil, model.ErrAlreadyInGame
	}

	game.Players = append(game.Players, playerID)
	boards := make(map[model.PlayerID]*model.Board, len(game.Players))
	for _, p := range game.Players {
		b, err := c.dealBoard()
		if err != nil {
			c.logger.Error("failed to generate board",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		boards[p] = b
	}

	game.Boards = boards
	game.State = model.GameStateInProgress
	game.CurrentTurn = game.Players[0]
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.UpdateGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(gameID)),
		slog.String("grid_id", string(game.GridID)),
		slog.String("current_turn", string(game.CurrentTurn)),
	)
	return game, nil
}

func (c *Controller) dealBoard() (*model.Board, error) {
	b, err := c.generator.Generate(c.config.BoardSize)
	if err != nil {
		return nil, err
	}
	b.MissileCount = c.config.BoardSize
	if c.random.Float64() < c.config.BerserkProbability {
		b.IsBerserk = true
		b.MissileCount /= 2
	}
	return b, nil
}

// Fire applies a shot from the player at the opponent's board.
// A miss passes the turn; a hit keeps it. Destroying the last occupied cell
// finishes the game and credits the shooter's remaining missiles to their profile.
func (c *Controller) Fire(ctx context.Context, gameID model.GameID, playerID model.PlayerID, rawPosition string) (*Shot, error) {
	shot, err := c.fire(ctx, gameID, playerID, rawPosition)
	if err != nil {
		return nil, err
	}

	game := shot.Game
	if game.State == model.GameStateFinished {
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.String("winner", string(game.Winner)),
			slog.Int("score", *game.Score),
		)
		if err := c.scores.AddScore(ctx, game.Winner, *game.Score); err != nil {
			// the game result stands even if the profile update fails
			c.logger.Error("failed to credit score",
				slog.String("game_id", string(game.ID)),
				slog.String("player_id", string(game.Winner)),
				slog.String("error", err.Error()),
			)
		}
	}
	return shot, nil
}

func (c *Controller) fire(ctx context.Context, gameID model.GameID, playerID model.PlayerID, rawPosition string) (*Shot, error) {
	unlock := c.locks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != model.GameStateInProgress {
		return nil, model.ErrGameNotInProgress
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotInGame
	}
	if game.CurrentTurn != playerID {
		return nil, model.ErrNotPlayerTurn
	}

	opponent := game.Opponent(playerID)
	target := game.Boards[opponent]
	pos, err := model.ParsePosition(rawPosition, target.GridSize)
	if err != nil {
		return nil, err
	}

	result := board.ApplyShot(target, pos)
	game.Boards[playerID].MissileCount--

	if !result.Hit {
		game.CurrentTurn = opponent
	}
	if target.AllDestroyed() {
		score := max(0, game.Boards[playerID].MissileCount)
		game.State = model.GameStateFinished
		game.Winner = playerID
		game.Score = &score
		game.CurrentTurn = ""
	}
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.UpdateGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Debug("shot applied",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("position", string(pos)),
		slog.Bool("hit", result.Hit),
		slog.Bool("destroyed", result.Destroyed),
	)
	return &Shot{Position: pos, Result: result, Game: game}, nil
}

// Rematch opens a new waiting game in the same grid for a player of a finished game.
// The finished game is left untouched.
func (c *Controller) Rematch(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	finished, err := c.finishedGame(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	return c.CreateWaitingGame(ctx, finished.GridID, playerID)
}

// CheckRematch reports whether the player may request a rematch from this game
func (c *Controller) CheckRematch(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	_, err := c.finishedGame(ctx, gameID, playerID)
	return err
}

func (c *Controller) finishedGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.locks.Lock(string(gameID))
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != model.GameStateFinished {
		return nil, model.ErrGameNotFinished
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotInGame
	}
	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GamesForGrid returns every game in the grid in creation order
func (c *Controller) GamesForGrid(ctx context.Context, gridID model.GridID) ([]*model.Game, error) {
	return c.storage.GetGames(ctx, gridID)
}

// CurrentGame returns the most recently created game in the grid that includes the player
func (c *Controller) CurrentGame(ctx context.Context, gridID model.GridID, playerID model.PlayerID) (*model.Game, error) {
	games, err := c.storage.GetGames(ctx, gridID)
	if err != nil {
		return nil, err
	}
	for i := len(games) - 1; i >= 0; i-- {
		if games[i].HasPlayer(playerID) {
			return games[i], nil
		}
	}
	return nil, model.ErrGameNotFound
}
