package model

// MessageType discriminates inbound and outbound channel messages
type MessageType string

const (
	// Inbound
	MessageShot    MessageType = "shot"
	MessageNewGame MessageType = "new_game"

	// Outbound
	MessageGameStarted    MessageType = "game_started"
	MessageShotResult     MessageType = "shot_result"
	MessageNewGameCreated MessageType = "new_game_created"
	MessageGameState      MessageType = "game_state"
)

// InboundMessage is a message received from a player's channel
type InboundMessage struct {
	Type     MessageType `json:"type"`
	Position string      `json:"position,omitempty"`
}

// GameEvent carries a game snapshot (game_started, new_game_created, game_state)
type GameEvent struct {
	Type MessageType `json:"type"`
	Game *Game       `json:"game"`
}

// ShotResultEvent reports the outcome of a shot to the whole grid
type ShotResultEvent struct {
	Type          MessageType `json:"type"`
	Position      Position    `json:"position"`
	Hit           bool        `json:"hit"`
	Destroyed     bool        `json:"destroyed"`
	ShipDestroyed bool        `json:"ship_destroyed"`
	Game          *Game       `json:"game"`
}

// ShotResult is the outcome of applying one shot to a board
type ShotResult struct {
	Hit           bool
	Destroyed     bool // the targeted cell is destroyed after this shot
	ShipDestroyed bool // this shot destroyed the last intact cell of its ship type
	Repeat        bool // the targeted cell was already destroyed; nothing changed
}
