package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
)

// ScheduleDependencies defines the interface for fixtures and results.
type ScheduleDependencies interface {
	GenerateSchedule(ctx context.Context, tournamentID string, req types.ScheduleRequest) ([]model.Match, error)
	ListMatches(ctx context.Context, tournamentID string) ([]model.Match, error)
	RecordResult(ctx context.Context, matchID string, score1, score2 int) (model.Match, error)
	ClearResult(ctx context.Context, matchID string) (model.Match, error)
}

// ScheduleHandler handles schedule and match result requests.
type ScheduleHandler struct {
	deps ScheduleDependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

type resultRequest struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

// HandleGenerate handles POST /tournaments/{id}/schedule.
func (h *ScheduleHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_schedule"
	var req types.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	matches, err := h.deps.GenerateSchedule(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, matches)
}

// HandleListMatches handles GET /tournaments/{id}/matches.
func (h *ScheduleHandler) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.deps.ListMatches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.list_matches", err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleRecordResult handles PUT /matches/{id}/result.
func (h *ScheduleHandler) HandleRecordResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_result"
	var req resultRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	if req.Score1 == nil || req.Score2 == nil {
		respondError(w, r, NewKind(op, ErrBadRequest, "score1 and score2 are required"))
		return
	}
	m, err := h.deps.RecordResult(r.Context(), chi.URLParam(r, "id"), *req.Score1, *req.Score2)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleClearResult handles DELETE /matches/{id}/result.
func (h *ScheduleHandler) HandleClearResult(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.ClearResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.clear_result", err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}
