package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
)

// PlayerDependencies defines the interface for player operations.
type PlayerDependencies interface {
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	PlayerHistory(ctx context.Context, playerID string) (types.PlayerHistory, error)
}

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

type playerRequest struct {
	Nickname string  `json:"nickname"`
	Email    *string `json:"email,omitempty"`
}

// HandleList handles GET /players.
func (h *PlayerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	players, err := h.deps.ListPlayers(r.Context())
	if err != nil {
		respondError(w, r, Wrap("api.list_players", err))
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleCreate handles POST /players.
func (h *PlayerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_player"
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	p, err := h.deps.CreatePlayer(r.Context(), model.Player{Nickname: req.Nickname, Email: req.Email})
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /players/{id}.
func (h *PlayerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetPlayer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.get_player", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /players/{id}.
func (h *PlayerHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_player"
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	p, err := h.deps.UpdatePlayer(r.Context(), model.Player{
		ID:       chi.URLParam(r, "id"),
		Nickname: req.Nickname,
		Email:    req.Email,
	})
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /players/{id}.
func (h *PlayerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeletePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, Wrap("api.delete_player", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHistory handles GET /players/{id}/history.
func (h *PlayerHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.deps.PlayerHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.player_history", err))
		return
	}
	writeJSON(w, http.StatusOK, history)
}
