// Package board mirrors bettor leaderboards into an external read model.
//
// The service stays authoritative; the board is a projection that other
// consumers read without touching the store.
package board

import (
	"context"

	"github.com/okian/fcleague/internal/domain/types"
)

// Publisher writes a tournament's bettor leaderboard.
type Publisher interface {
	// Publish replaces the tournament's board with entries, which must
	// already be in rank order.
	Publish(ctx context.Context, tournamentID string, entries []types.BettorEntry) error
}

// Noop discards publishes. It is used when no board is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, []types.BettorEntry) error { return nil }
