package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mcoot/gridbattle/internal/dependencies/random"
	"github.com/mcoot/gridbattle/internal/model"
)

func fixtureBoard() *model.Board {
	return &model.Board{
		GridSize: 3,
		Cells: map[model.Position]*model.Cell{
			"A1": {Type: model.ShipTypeP},
			"A2": {Type: model.ShipTypeP},
			"C3": {Type: model.ShipTypeQ},
		},
	}
}

func TestApplyShotMiss(t *testing.T) {
	board := fixtureBoard()
	before := board.Clone()

	result := ApplyShot(board, "B2")

	assert.Equal(t, model.ShotResult{}, result)
	assert.Equal(t, before, board)
}

func TestApplyShotDestroysPCell(t *testing.T) {
	board := fixtureBoard()

	result := ApplyShot(board, "A1")

	assert.True(t, result.Hit)
	assert.True(t, result.Destroyed)
	assert.False(t, result.ShipDestroyed, "A2 is still intact")
	assert.Equal(t, 1, board.Cells["A1"].Hits)
	assert.True(t, board.Cells["A1"].Destroyed)
}

func TestApplyShotDestroysLastCellOfType(t *testing.T) {
	board := fixtureBoard()
	ApplyShot(board, "A1")

	result := ApplyShot(board, "A2")

	assert.True(t, result.ShipDestroyed)
	assert.False(t, board.AllDestroyed(), "Q cell remains")
}

func TestApplyShotQNeedsTwoHits(t *testing.T) {
	board := fixtureBoard()

	first := ApplyShot(board, "C3")
	assert.True(t, first.Hit)
	assert.False(t, first.Destroyed)
	assert.False(t, first.ShipDestroyed)

	second := ApplyShot(board, "C3")
	assert.True(t, second.Hit)
	assert.True(t, second.Destroyed)
	assert.True(t, second.ShipDestroyed)
	assert.Equal(t, 2, board.Cells["C3"].Hits)
}

func TestApplyShotRepeatHitChangesNothing(t *testing.T) {
	board := fixtureBoard()
	ApplyShot(board, "A1")
	before := board.Clone()

	result := ApplyShot(board, "A1")

	assert.Equal(t, model.ShotResult{Hit: true, Destroyed: true, Repeat: true}, result)
	assert.Equal(t, before, board)
}

func TestApplyShotLeavesOtherCellsAlone(t *testing.T) {
	board := fixtureBoard()

	ApplyShot(board, "C3")

	assert.Zero(t, board.Cells["A1"].Hits)
	assert.Zero(t, board.Cells["A2"].Hits)
	assert.Zero(t, board.MissileCount)
}

// Firing at every cell until destroyed takes exactly the sum of required hits,
// and the board reports fully destroyed only after the last one.
func TestBoardDestroyedAfterRequiredHits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		boardSize := rapid.IntRange(1, 400).Draw(t, "board_size")
		seed := rapid.Uint64().Draw(t, "seed")

		board, err := NewGenerator(DefaultConfig(), random.NewSeeded(seed)).Generate(boardSize)
		require.NoError(t, err)

		required := 0
		for _, cell := range board.Cells {
			required += cell.Type.RequiredHits()
		}

		shots := 0
		for pos := range board.Cells {
			for !board.Cells[pos].Destroyed {
				if board.AllDestroyed() {
					t.Fatalf("board destroyed with %s intact", pos)
				}
				result := ApplyShot(board, pos)
				if !result.Hit || result.Repeat {
					t.Fatalf("shot at intact %s: %+v", pos, result)
				}
				shots++
			}
		}

		if shots != required {
			t.Fatalf("took %d shots, want %d", shots, required)
		}
		if !board.AllDestroyed() {
			t.Fatalf("board not destroyed after all cells hit")
		}
	})
}
