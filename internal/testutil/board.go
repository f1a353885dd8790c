package testutil

import "github.com/mcoot/gridbattle/internal/model"

// FixedGenerator deals the same fleet on every call, making games scriptable
type FixedGenerator struct {
	GridSize int
	Ships    map[model.Position]model.ShipType
}

// NewFixedGenerator deals a P ship at A1 and a Q ship at B2 on a 3x3 grid.
// A fleet falls to the shots A1, B2, B2; C3 always misses.
func NewFixedGenerator() *FixedGenerator {
	return &FixedGenerator{
		GridSize: 3,
		Ships: map[model.Position]model.ShipType{
			"A1": model.ShipTypeP,
			"B2": model.ShipTypeQ,
		},
	}
}

// Generate returns a fresh copy of the fixed fleet
func (g *FixedGenerator) Generate(boardSize int) (*model.Board, error) {
	cells := make(map[model.Position]*model.Cell, len(g.Ships))
	for pos, t := range g.Ships {
		cells[pos] = &model.Cell{Type: t}
	}
	return &model.Board{GridSize: g.GridSize, Cells: cells}, nil
}
