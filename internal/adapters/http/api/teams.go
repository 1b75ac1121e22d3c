package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
)

// TeamDependencies defines the interface for team operations.
type TeamDependencies interface {
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	GetTeam(ctx context.Context, id string) (model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	UpdateTeam(ctx context.Context, t model.Team) (model.Team, error)
	DeleteTeam(ctx context.Context, id string) error
}

// TeamHandler handles team requests.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

type teamRequest struct {
	Name string `json:"name"`
}

// HandleList handles GET /teams.
func (h *TeamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.ListTeams(r.Context())
	if err != nil {
		respondError(w, r, Wrap("api.list_teams", err))
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleCreate handles POST /teams.
func (h *TeamHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_team"
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	t, err := h.deps.CreateTeam(r.Context(), model.Team{Name: req.Name})
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// HandleGet handles GET /teams/{id}.
func (h *TeamHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.get_team", err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleUpdate handles PUT /teams/{id}.
func (h *TeamHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_team"
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	t, err := h.deps.UpdateTeam(r.Context(), model.Team{ID: chi.URLParam(r, "id"), Name: req.Name})
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleDelete handles DELETE /teams/{id}.
func (h *TeamHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, Wrap("api.delete_team", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
