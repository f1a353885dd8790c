package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gridbattle/internal/api/request"
	"github.com/mcoot/gridbattle/internal/api/response"
	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/services/player"
	"github.com/mcoot/gridbattle/internal/session"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players     *player.Service
	coordinator *session.Coordinator
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *player.Service, coordinator *session.Coordinator) *PlayerHandler {
	return &PlayerHandler{
		players:     players,
		coordinator: coordinator,
	}
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.players.Create(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/players/"+string(p.ID), response.PlayerFromModel(p))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	p, err := h.players.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// OnlineCount handles GET /api/v1/players/online/count
func (h *PlayerHandler) OnlineCount(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.OnlineCount{Count: h.coordinator.OnlineCount()})
}
