package game

// Config tunes game setup
type Config struct {
	// BoardSize is the cell budget handed to the board generator and the base
	// missile allotment for each player
	BoardSize int

	// BerserkProbability is the chance each player independently starts
	// berserk, halving their missiles
	BerserkProbability float64
}

// DefaultConfig returns the standard game settings
func DefaultConfig() Config {
	return Config{
		BoardSize:          100,
		BerserkProbability: 0.7,
	}
}
