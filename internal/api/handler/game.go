package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gridbattle/internal/api/response"
	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/services/game"
)

// GameHandler handles read-only game endpoints. Games are played over the websocket.
type GameHandler struct {
	games *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Controller) *GameHandler {
	return &GameHandler{
		games: games,
	}
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g)
}

// ListForGrid handles GET /api/v1/grids/{grid_id}/games
func (h *GameHandler) ListForGrid(w http.ResponseWriter, r *http.Request) {
	gridID := model.GridID(mux.Vars(r)["grid_id"])

	games, err := h.games.GamesForGrid(r.Context(), gridID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameList{GridID: string(gridID), Games: games})
}
