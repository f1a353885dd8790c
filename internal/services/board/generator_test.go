package board

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/mcoot/gridbattle/internal/dependencies/mocks"
	"github.com/mcoot/gridbattle/internal/dependencies/random"
	"github.com/mcoot/gridbattle/internal/model"
)

type GeneratorSuite struct {
	suite.Suite
	random    *mocks.MockRandom
	generator *RandomGenerator
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.generator = NewGenerator(DefaultConfig(), s.random)
}

func (s *GeneratorSuite) TestRejectsEmptyBoard() {
	_, err := s.generator.Generate(0)
	s.ErrorIs(err, model.ErrBoardTooSmall)
}

func (s *GeneratorSuite) TestRejectsGridBeyondZ() {
	_, err := s.generator.Generate(27 * 27)
	s.ErrorIs(err, model.ErrBoardTooLarge)
}

func (s *GeneratorSuite) TestLargestGridAccepted() {
	board, err := NewGenerator(DefaultConfig(), random.NewSeeded(1)).Generate(26 * 26)
	s.Require().NoError(err)
	s.Equal(26, board.GridSize)
}

func (s *GeneratorSuite) TestSingleCellBoard() {
	board, err := s.generator.Generate(1)
	s.Require().NoError(err)

	s.Equal(1, board.GridSize)
	s.Require().Len(board.Cells, 1)
	s.Contains(board.Cells, model.Position("A1"))
	s.Equal(model.ShipTypeP, board.Cells["A1"].Type)
}

func (s *GeneratorSuite) TestGridIsFloorOfSquareRoot() {
	board, err := s.generator.Generate(20)
	s.Require().NoError(err)
	s.Equal(4, board.GridSize)
}

func (s *GeneratorSuite) TestPlacesShipFromRandomDraws() {
	// type Q, height 2, width 1, column-major, row 1, col 1
	s.random.QueueIntn(1, 1, 0, 1, 1, 1)

	board, err := s.generator.Generate(9)
	s.Require().NoError(err)

	s.Require().Len(board.Cells, 2)
	s.Equal(model.ShipTypeQ, board.Cells["B3"].Type)
	s.Equal(model.ShipTypeQ, board.Cells["B2"].Type)
}

func (s *GeneratorSuite) TestRowMajorOrientation() {
	// type P, height 2, width 1, row-major, row 0, col 0
	s.random.QueueIntn(0, 1, 0, 0, 0, 0)

	board, err := s.generator.Generate(9)
	s.Require().NoError(err)

	s.Require().Len(board.Cells, 2)
	s.Contains(board.Cells, model.Position("A1"))
	s.Contains(board.Cells, model.Position("B1"))
}

func (s *GeneratorSuite) TestShipCountFollowsDivisor() {
	// All 1x1 ships: every Intn draw is zero, so each ship lands on the first free cell
	board, err := NewGenerator(Config{
		ShipCountDivisor:     5,
		MaxShipSpan:          1,
		MaxPlacementAttempts: 3,
		MaxLayoutAttempts:    1,
	}, s.random).Generate(25)
	s.Require().NoError(err)

	s.Len(board.Cells, 5)
}

func (s *GeneratorSuite) TestCrowdedGridFallsBackToFreePlacements() {
	// 4 1x1 ships on a 2x2 grid with no random retries fill every cell
	board, err := NewGenerator(Config{
		ShipCountDivisor:     1,
		MaxShipSpan:          1,
		MaxPlacementAttempts: 0,
		MaxLayoutAttempts:    1,
	}, s.random).Generate(4)
	s.Require().NoError(err)

	s.Len(board.Cells, 4)
}

func (s *GeneratorSuite) TestNoRoomForShip() {
	// 5 ships cannot fit a 2x2 grid
	_, err := NewGenerator(Config{
		ShipCountDivisor:     1,
		MaxShipSpan:          1,
		MaxPlacementAttempts: 5,
		MaxLayoutAttempts:    2,
	}, s.random).Generate(5)
	s.ErrorIs(err, model.ErrNoRoomForShip)
}

func (s *GeneratorSuite) TestFreshCellsAreIntact() {
	board, err := NewGenerator(DefaultConfig(), random.NewSeeded(7)).Generate(100)
	s.Require().NoError(err)

	for pos, cell := range board.Cells {
		s.Zero(cell.Hits, pos)
		s.False(cell.Destroyed, pos)
	}
	s.Zero(board.MissileCount)
}

// Property tests

func TestGeneratedBoardsStayInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		boardSize := rapid.IntRange(1, model.MaxGridSize*model.MaxGridSize).Draw(t, "board_size")
		seed := rapid.Uint64().Draw(t, "seed")

		board, err := NewGenerator(DefaultConfig(), random.NewSeeded(seed)).Generate(boardSize)
		if err != nil {
			t.Fatalf("generate(%d): %v", boardSize, err)
		}

		if board.GridSize != model.GridSizeFor(boardSize) {
			t.Fatalf("grid size %d, want %d", board.GridSize, model.GridSizeFor(boardSize))
		}
		if len(board.Cells) == 0 {
			t.Fatalf("board has no ships")
		}
		for pos, cell := range board.Cells {
			if _, err := model.ParsePosition(string(pos), board.GridSize); err != nil {
				t.Fatalf("position %s outside %dx%d grid", pos, board.GridSize, board.GridSize)
			}
			if cell.Type != model.ShipTypeP && cell.Type != model.ShipTypeQ {
				t.Fatalf("unknown ship type %q at %s", cell.Type, pos)
			}
		}
	})
}

func TestGeneratedShipsDoNotOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gridSize := rapid.IntRange(1, 10).Draw(t, "grid_size")
		span := rapid.IntRange(1, gridSize).Draw(t, "span")
		seed := rapid.Uint64().Draw(t, "seed")

		g := NewGenerator(Config{
			ShipCountDivisor:     10,
			MaxShipSpan:          span,
			MaxPlacementAttempts: 100,
			MaxLayoutAttempts:    1,
		}, random.NewSeeded(seed))

		placed, err := g.layout(gridSize*gridSize, gridSize)
		if err != nil {
			// a single crowded layout may legitimately run out of room
			return
		}

		// Disjoint ships contribute exactly their area
		area := 0
		for _, ps := range placed {
			area += ps.Height * ps.Width
			if ps.Row+ps.Height > gridSize || ps.Col+ps.Width > gridSize {
				t.Fatalf("ship at (%d,%d) overflows %dx%d grid", ps.Row, ps.Col, gridSize, gridSize)
			}
		}
		if n := len(placed.cells()); n != area {
			t.Fatalf("placed %d cells for ships totalling %d", n, area)
		}
	})
}
