package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
)

// AchievementDependencies defines the interface for tournament closing and awards.
type AchievementDependencies interface {
	FinalizeTournament(ctx context.Context, tournamentID string) ([]model.Achievement, error)
	Achievements(ctx context.Context, tournamentID string) ([]model.Achievement, error)
}

// AchievementHandler handles finalize and achievement requests.
type AchievementHandler struct {
	deps AchievementDependencies
}

// NewAchievementHandler creates a new achievement handler.
func NewAchievementHandler(deps AchievementDependencies) *AchievementHandler {
	return &AchievementHandler{deps: deps}
}

// HandleFinalize handles POST /tournaments/{id}/finalize.
func (h *AchievementHandler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	set, err := h.deps.FinalizeTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.finalize", err))
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// HandleList handles GET /tournaments/{id}/achievements.
func (h *AchievementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	set, err := h.deps.Achievements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.achievements", err))
		return
	}
	writeJSON(w, http.StatusOK, set)
}
