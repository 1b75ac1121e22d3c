package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
)

// TournamentDependencies defines the interface for tournament operations.
type TournamentDependencies interface {
	CreateTournament(ctx context.Context, t model.Tournament) (model.Tournament, error)
	GetTournament(ctx context.Context, id string) (model.Tournament, error)
	ListTournaments(ctx context.Context) ([]model.Tournament, error)
	UpdateTournament(ctx context.Context, t model.Tournament) (model.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
}

// TournamentHandler handles tournament requests.
type TournamentHandler struct {
	deps TournamentDependencies
}

// NewTournamentHandler creates a new tournament handler.
func NewTournamentHandler(deps TournamentDependencies) *TournamentHandler {
	return &TournamentHandler{deps: deps}
}

type tournamentRequest struct {
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Seeding   []string   `json:"seeding,omitempty"`
}

func (req tournamentRequest) tournament(id string) model.Tournament {
	t := model.Tournament{ID: id, Name: req.Name, EndDate: req.EndDate, Seeding: req.Seeding}
	if req.StartDate != nil {
		t.StartDate = *req.StartDate
	}
	return t
}

// HandleList handles GET /tournaments.
func (h *TournamentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.ListTournaments(r.Context())
	if err != nil {
		respondError(w, r, Wrap("api.list_tournaments", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /tournaments.
func (h *TournamentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_tournament"
	var req tournamentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	t, err := h.deps.CreateTournament(r.Context(), req.tournament(""))
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// HandleGet handles GET /tournaments/{id}.
func (h *TournamentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.deps.GetTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.get_tournament", err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleUpdate handles PUT /tournaments/{id}.
func (h *TournamentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_tournament"
	var req tournamentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	t, err := h.deps.UpdateTournament(r.Context(), req.tournament(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleDelete handles DELETE /tournaments/{id}.
func (h *TournamentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteTournament(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, Wrap("api.delete_tournament", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
