package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/types"
)

// LeaderboardDependencies defines the interface for the betting leaderboard.
type LeaderboardDependencies interface {
	BettingLeaderboard(ctx context.Context, tournamentID string, limit int) ([]types.BettorEntry, error)
}

// LeaderboardHandler handles betting leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /tournaments/{id}/betting/leaderboard?limit=N.
// Without a limit the configured maximum applies.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.betting_leaderboard"
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			respondError(w, r, NewKind(op, ErrBadRequest, "limit must be a positive integer"))
			return
		}
		if n > h.maxLimit {
			respondError(w, r, NewKind(op, ErrLimitExceeded, strconv.Itoa(h.maxLimit)))
			return
		}
	}
	entries, err := h.deps.BettingLeaderboard(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
