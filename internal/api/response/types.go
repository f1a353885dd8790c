package response

import (
	"time"

	"github.com/mcoot/gridbattle/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsOnline  bool      `json:"is_online"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        string(p.ID),
		Name:      p.Name,
		IsOnline:  p.IsOnline,
		Score:     p.Score,
		CreatedAt: p.CreatedAt,
	}
}

// OnlineCount reports the number of live player connections
type OnlineCount struct {
	Count int `json:"count"`
}

// GameList is the response for listing a grid's games
type GameList struct {
	GridID string        `json:"grid_id"`
	Games  []*model.Game `json:"games"`
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
