package board

import (
	"errors"
	"fmt"

	"github.com/mcoot/gridbattle/internal/dependencies/random"
	"github.com/mcoot/gridbattle/internal/model"
)

// Generator deals a fresh fleet for one player
type Generator interface {
	// Generate returns a board with GridSize and Cells populated.
	// Missile allotment is left to the caller.
	Generate(boardSize int) (*model.Board, error)
}

// RandomGenerator places rectangular ships at random, without overlap
type RandomGenerator struct {
	config Config
	random random.Random
}

// NewGenerator creates a RandomGenerator
func NewGenerator(config Config, rnd random.Random) *RandomGenerator {
	return &RandomGenerator{
		config: config,
		random: rnd,
	}
}

var _ Generator = (*RandomGenerator)(nil)

// ship is a rectangle of cells sharing one type, before orientation is chosen
type ship struct {
	Type   model.ShipType
	Height int
	Width  int
}

// placement is an oriented ship anchored at its top-left cell
type placement struct {
	Row, Col      int
	Height, Width int
}

func (p placement) positions() []model.Position {
	positions := make([]model.Position, 0, p.Height*p.Width)
	for r := 0; r < p.Height; r++ {
		for c := 0; c < p.Width; c++ {
			positions = append(positions, model.NewPosition(p.Row+r, p.Col+c))
		}
	}
	return positions
}

// Generate lays out max(1, boardSize/divisor) ships on a floor(sqrt(boardSize)) grid
func (g *RandomGenerator) Generate(boardSize int) (*model.Board, error) {
	if boardSize < 1 {
		return nil, model.ErrBoardTooSmall
	}
	gridSize := model.GridSizeFor(boardSize)
	if gridSize > model.MaxGridSize {
		return nil, model.ErrBoardTooLarge
	}

	attempts := max(1, g.config.MaxLayoutAttempts)
	var lastErr error
	for range attempts {
		placed, err := g.layout(boardSize, gridSize)
		if err == nil {
			return &model.Board{GridSize: gridSize, Cells: placed.cells()}, nil
		}
		if !errors.Is(err, model.ErrNoRoomForShip) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d layouts: %w", attempts, lastErr)
}

// placedShip is a ship with its final placement
type placedShip struct {
	Type model.ShipType
	placement
}

type fleet []placedShip

func (f fleet) cells() map[model.Position]*model.Cell {
	cells := make(map[model.Position]*model.Cell)
	for _, ps := range f {
		for _, pos := range ps.positions() {
			cells[pos] = &model.Cell{Type: ps.Type}
		}
	}
	return cells
}

func (g *RandomGenerator) layout(boardSize, gridSize int) (fleet, error) {
	occupied := make(map[model.Position]bool)
	span := g.config.span(gridSize)

	var placed fleet
	for range g.config.shipCount(boardSize) {
		s := g.randomShip(span)
		if err := checkFit(s, gridSize, len(occupied)); err != nil {
			return nil, err
		}

		p, err := g.place(s, gridSize, occupied)
		if err != nil {
			return nil, err
		}
		for _, pos := range p.positions() {
			occupied[pos] = true
		}
		placed = append(placed, placedShip{Type: s.Type, placement: p})
	}
	return placed, nil
}

func (g *RandomGenerator) randomShip(span int) ship {
	shipType := model.ShipTypeP
	if g.random.Intn(2) == 1 {
		shipType = model.ShipTypeQ
	}
	return ship{
		Type:   shipType,
		Height: 1 + g.random.Intn(span),
		Width:  1 + g.random.Intn(span),
	}
}

// checkFit rejects ships that cannot be placed before any position is drawn
func checkFit(s ship, gridSize, occupied int) error {
	if s.Height > gridSize || s.Width > gridSize {
		return model.ErrShipTooLarge
	}
	if s.Height*s.Width > gridSize*gridSize-occupied {
		return model.ErrNoRoomForShip
	}
	return nil
}

func (g *RandomGenerator) place(s ship, gridSize int, occupied map[model.Position]bool) (placement, error) {
	for range g.config.MaxPlacementAttempts {
		p := orient(s, g.random.Intn(2) == 0)
		p.Row = g.random.Intn(gridSize - p.Height + 1)
		p.Col = g.random.Intn(gridSize - p.Width + 1)
		if isFree(p, occupied) {
			return p, nil
		}
	}

	// Crowded grid: choose uniformly among every free placement
	var candidates []placement
	for _, rowMajor := range []bool{true, false} {
		base := orient(s, rowMajor)
		for row := 0; row+base.Height <= gridSize; row++ {
			for col := 0; col+base.Width <= gridSize; col++ {
				p := base
				p.Row, p.Col = row, col
				if isFree(p, occupied) {
					candidates = append(candidates, p)
				}
			}
		}
	}
	if len(candidates) == 0 {
		return placement{}, model.ErrNoRoomForShip
	}
	return candidates[g.random.Intn(len(candidates))], nil
}

// orient fills row-major (height x width) or column-major (width x height)
func orient(s ship, rowMajor bool) placement {
	if rowMajor {
		return placement{Height: s.Height, Width: s.Width}
	}
	return placement{Height: s.Width, Width: s.Height}
}

func isFree(p placement, occupied map[model.Position]bool) bool {
	for _, pos := range p.positions() {
		if occupied[pos] {
			return false
		}
	}
	return true
}
