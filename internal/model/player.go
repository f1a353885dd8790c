package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Display name limits, measured after trimming whitespace
const (
	MinPlayerNameLength = 1
	MaxPlayerNameLength = 100
)

// Player is a persisted player profile
type Player struct {
	ID        PlayerID  `json:"id"`
	Name      string    `json:"name"`
	IsOnline  bool      `json:"is_online"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
