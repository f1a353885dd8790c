package storage

import (
	"context"

	"github.com/mcoot/gridbattle/internal/model"
)

// Storage defines the interface for data persistence.
// Lookups of absent ids return an error wrapping model.ErrNotFound.
type Storage interface {
	// Player operations
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// CreatePlayer fails with model.ErrPlayerNameTaken if the name is in use
	CreatePlayer(ctx context.Context, player *model.Player) error
	UpdatePlayer(ctx context.Context, player *model.Player) error

	// Game operations
	// GetGames returns the grid's games in creation order
	GetGames(ctx context.Context, gridID model.GridID) ([]*model.Game, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	// CreateGame fails with model.ErrGameExists if the id is in use
	CreateGame(ctx context.Context, game *model.Game) error
	UpdateGame(ctx context.Context, game *model.Game) error
}
