package board

import (
	"fmt"

	"github.com/mcoot/gridbattle/internal/model"
)

// Config tunes board generation
type Config struct {
	// ShipCountDivisor sets the ship count to max(1, boardSize/ShipCountDivisor)
	ShipCountDivisor int

	// MaxShipSpan caps each ship's height and width. Zero means the grid dimension.
	MaxShipSpan int

	// MaxPlacementAttempts bounds the random top-left draws per ship before
	// falling back to choosing among every free placement
	MaxPlacementAttempts int

	// MaxLayoutAttempts bounds how many times a whole layout is restarted when
	// a ship finds no free space
	MaxLayoutAttempts int
}

// DefaultConfig returns the standard generation settings
func DefaultConfig() Config {
	return Config{
		ShipCountDivisor:     10,
		MaxShipSpan:          2,
		MaxPlacementAttempts: 100,
		MaxLayoutAttempts:    10,
	}
}

func (c Config) shipCount(boardSize int) int {
	divisor := c.ShipCountDivisor
	if divisor <= 0 {
		divisor = 10
	}
	return max(1, boardSize/divisor)
}

func (c Config) span(gridSize int) int {
	if c.MaxShipSpan <= 0 || c.MaxShipSpan > gridSize {
		return gridSize
	}
	return c.MaxShipSpan
}

// Validate checks that boards of this size can always be dealt: the grid must
// fit the row letters and a fleet of maximum-span ships must not outgrow it.
func (c Config) Validate(boardSize int) error {
	if boardSize < 1 {
		return model.ErrBoardTooSmall
	}
	gridSize := model.GridSizeFor(boardSize)
	if gridSize > model.MaxGridSize {
		return fmt.Errorf("%w: board size %d gives a %dx%d grid", model.ErrBoardTooLarge, boardSize, gridSize, gridSize)
	}
	span := c.span(gridSize)
	if need := c.shipCount(boardSize) * span * span; need > gridSize*gridSize {
		return fmt.Errorf("%w: %d ships of up to %dx%d need %d cells, grid has %d",
			model.ErrFleetTooLarge, c.shipCount(boardSize), span, span, need, gridSize*gridSize)
	}
	return nil
}
