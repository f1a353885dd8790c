package board

import "github.com/mcoot/gridbattle/internal/model"

// ApplyShot resolves one shot against a board, mutating only the targeted cell.
// A shot at an already destroyed cell reports a repeat hit and changes nothing.
func ApplyShot(board *model.Board, pos model.Position) model.ShotResult {
	cell, ok := board.Cells[pos]
	if !ok {
		return model.ShotResult{}
	}
	if cell.Destroyed {
		return model.ShotResult{Hit: true, Destroyed: true, Repeat: true}
	}

	cell.Hits++
	cell.Destroyed = cell.Hits >= cell.Type.RequiredHits()

	return model.ShotResult{
		Hit:           true,
		Destroyed:     cell.Destroyed,
		ShipDestroyed: cell.Destroyed && board.TypeDestroyed(cell.Type),
	}
}
