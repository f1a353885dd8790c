package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GridID names a matchmaking room; players in the same grid are paired together
type GridID string

// GameState represents the current phase of a game. Transitions only move forward.
type GameState string

const (
	GameStateWaiting    GameState = "waiting"     // One player, no boards yet
	GameStateInProgress GameState = "in_progress" // Two players, boards dealt
	GameStateFinished   GameState = "finished"    // Winner and score recorded
)

// PlayersPerGame is the number of players in a full game
const PlayersPerGame = 2

// Game is a single match between two players within a grid
type Game struct {
	ID      GameID     `json:"id"`
	GridID  GridID     `json:"grid_id"`
	State   GameState  `json:"state"`
	Players []PlayerID `json:"players"`

	// Boards are populated together when the second player joins
	Boards map[PlayerID]*Board `json:"boards"`

	CurrentTurn PlayerID `json:"current_turn,omitempty"`
	Winner      PlayerID `json:"winner,omitempty"`
	Score       *int     `json:"score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPlayer returns true if the player is part of this game
func (g *Game) HasPlayer(playerID PlayerID) bool {
	for _, p := range g.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// IsWaiting returns true if the game is waiting for an opponent
func (g *Game) IsWaiting() bool {
	return g.State == GameStateWaiting && len(g.Players) == 1
}

// Opponent returns the other player in a two-player game, or "" if there is none
func (g *Game) Opponent(playerID PlayerID) PlayerID {
	for _, p := range g.Players {
		if p != playerID {
			return p
		}
	}
	return ""
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	clone := *g
	clone.Players = append([]PlayerID(nil), g.Players...)
	clone.Boards = make(map[PlayerID]*Board, len(g.Boards))
	for id, b := range g.Boards {
		clone.Boards[id] = b.Clone()
	}
	if g.Score != nil {
		score := *g.Score
		clone.Score = &score
	}
	return &clone
}
