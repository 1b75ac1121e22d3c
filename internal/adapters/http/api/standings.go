package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/types"
)

// StandingsDependencies defines the interface for the league table.
type StandingsDependencies interface {
	Standings(ctx context.Context, tournamentID string) ([]types.StandingsEntry, error)
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleGet handles GET /tournaments/{id}/standings.
func (h *StandingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.Standings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.standings", err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
