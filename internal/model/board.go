package model

import (
	"math"
	"strconv"
	"strings"
)

// MaxGridSize is the largest grid dimension, bounded by the row letters A-Z
const MaxGridSize = 26

// Position is a cell key: a row letter followed by a 1-based column, e.g. "A1"
type Position string

// NewPosition builds the key for a 0-indexed row and column
func NewPosition(row, col int) Position {
	return Position(string(rune('A'+row)) + strconv.Itoa(col+1))
}

// ParsePosition validates a raw position against a grid dimension and
// returns its canonical form. Row letters are case-insensitive.
func ParsePosition(raw string, gridSize int) (Position, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return "", ErrInvalidPosition
	}
	digits := raw[1:]
	if digits[0] == '0' || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return "", ErrInvalidPosition
	}
	row := int(strings.ToUpper(raw[:1])[0]) - 'A'
	col, err := strconv.Atoi(digits)
	if err != nil {
		return "", ErrInvalidPosition
	}
	col--
	if row < 0 || row >= gridSize || col < 0 || col >= gridSize {
		return "", ErrInvalidPosition
	}
	return NewPosition(row, col), nil
}

// GridSizeFor returns the grid dimension for a board size (floor of the square root)
func GridSizeFor(boardSize int) int {
	if boardSize <= 0 {
		return 0
	}
	n := int(math.Sqrt(float64(boardSize)))
	// guard against float rounding on perfect squares
	for (n+1)*(n+1) <= boardSize {
		n++
	}
	for n*n > boardSize {
		n--
	}
	return n
}

// ShipType determines how many hits a ship cell absorbs
type ShipType string

const (
	ShipTypeP ShipType = "P" // destroyed by one hit
	ShipTypeQ ShipType = "Q" // destroyed by two hits
)

// RequiredHits returns the number of hits needed to destroy a cell of this type
func (t ShipType) RequiredHits() int {
	if t == ShipTypeQ {
		return 2
	}
	return 1
}

// Cell is a single ship-occupied square on a board
type Cell struct {
	Type      ShipType `json:"type"`
	Hits      int      `json:"hits"`
	Destroyed bool     `json:"destroyed"`
}

// Board is one player's fleet within a game. Only ship-occupied positions have cells.
type Board struct {
	GridSize     int                `json:"grid_size"`
	Cells        map[Position]*Cell `json:"cells"`
	MissileCount int                `json:"missile_count"`
	IsBerserk    bool               `json:"is_berserk"`
}

// AllDestroyed returns true if every occupied cell is destroyed
func (b *Board) AllDestroyed() bool {
	for _, cell := range b.Cells {
		if !cell.Destroyed {
			return false
		}
	}
	return true
}

// TypeDestroyed returns true if every cell of the given ship type is destroyed
func (b *Board) TypeDestroyed(t ShipType) bool {
	for _, cell := range b.Cells {
		if cell.Type == t && !cell.Destroyed {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	cells := make(map[Position]*Cell, len(b.Cells))
	for pos, cell := range b.Cells {
		c := *cell
		cells[pos] = &c
	}
	return &Board{
		GridSize:     b.GridSize,
		Cells:        cells,
		MissileCount: b.MissileCount,
		IsBerserk:    b.IsBerserk,
	}
}
