package model

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can branch with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInvalidMove = errors.New("invalid move")
)

var (
	// Player errors
	ErrPlayerNotFound    = fmt.Errorf("player %w", ErrNotFound)
	ErrPlayerNameTaken   = fmt.Errorf("%w: player name already taken", ErrConflict)
	ErrInvalidPlayerName = errors.New("player name must be 1-100 characters")

	// Game errors
	ErrGameNotFound      = fmt.Errorf("game %w", ErrNotFound)
	ErrGameExists        = fmt.Errorf("%w: game id already exists", ErrConflict)
	ErrNotPlayerTurn     = fmt.Errorf("%w: not this player's turn", ErrInvalidMove)
	ErrGameNotInProgress = fmt.Errorf("%w: game is not in progress", ErrInvalidMove)
	ErrGameNotFinished   = fmt.Errorf("%w: game is not finished", ErrInvalidMove)
	ErrGameNotWaiting    = fmt.Errorf("%w: game is not waiting for players", ErrInvalidMove)
	ErrNotInGame         = fmt.Errorf("%w: player is not in this game", ErrInvalidMove)
	ErrAlreadyInGame     = fmt.Errorf("%w: player is already in this game", ErrInvalidMove)
	ErrInvalidPosition   = fmt.Errorf("%w: invalid board position", ErrInvalidMove)

	// Board generation errors
	ErrBoardTooSmall = errors.New("board size must be at least 1")
	ErrBoardTooLarge = errors.New("board grid exceeds 26 rows")
	ErrShipTooLarge  = errors.New("ship does not fit the grid")
	ErrNoRoomForShip = errors.New("no free space left for ship")
	ErrFleetTooLarge = errors.New("largest possible fleet exceeds the grid")
)
