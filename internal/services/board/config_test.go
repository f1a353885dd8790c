package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/gridbattle/internal/model"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		boardSize int
		want      error
	}{
		{"default", DefaultConfig(), 100, nil},
		{"single cell", DefaultConfig(), 1, nil},
		{"largest grid", DefaultConfig(), 702, nil},
		{"empty board", DefaultConfig(), 0, model.ErrBoardTooSmall},
		{"too many rows", DefaultConfig(), 729, model.ErrBoardTooLarge},
		{"span of full grid", Config{ShipCountDivisor: 10, MaxShipSpan: 10}, 100, model.ErrFleetTooLarge},
		{"unbounded span", Config{ShipCountDivisor: 10}, 100, model.ErrFleetTooLarge},
		{"one ship of full grid", Config{ShipCountDivisor: 100}, 100, nil},
		{"fleet exactly fills grid", Config{ShipCountDivisor: 4, MaxShipSpan: 2}, 16, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(tt.boardSize)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
