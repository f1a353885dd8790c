package redis

import (
	"fmt"

	"github.com/mcoot/gridbattle/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "gridbattle"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerNameIndexKey returns the Redis key reserving a display name
func playerNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:player_name:%s", keyPrefix, name)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gridGamesIndexKey returns the Redis key for the LIST of game ids in a grid, oldest first
func gridGamesIndexKey(gridID model.GridID) string {
	return fmt.Sprintf("%s:idx:grid_games:%s", keyPrefix, gridID)
}
