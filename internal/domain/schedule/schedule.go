// Package schedule generates round-robin fixtures and team assignments.
package schedule

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fcleague/internal/domain/model"
)

// Default generator configuration constants.
const (
	defaultInterval = time.Hour
)

// Generator produces unplayed round-robin matches.
type Generator struct {
	start    time.Time
	interval time.Duration
	newID    func() string
	rng      *rand.Rand
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		start:    time.Now().UTC().Truncate(time.Minute),
		interval: defaultInterval,
		newID:    uuid.NewString,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // team draw, not security sensitive
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns one unplayed match per unordered pair of participants,
// pairing i<j in input order. Every participant needs a team in teams.
// Scheduled times increase by the generator's interval from its start.
func (g *Generator) Generate(tournamentID string, participants []string, teams map[string]string) ([]model.Match, error) {
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	for _, p := range participants {
		if teams[p] == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingTeam, p)
		}
	}

	n := len(participants)
	matches := make([]model.Match, 0, MatchCount(n))
	slot := g.start
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			at := slot
			matches = append(matches, model.Match{
				ID:           g.newID(),
				TournamentID: tournamentID,
				Player1ID:    participants[i],
				Player2ID:    participants[j],
				Team1ID:      teams[participants[i]],
				Team2ID:      teams[participants[j]],
				ScheduledAt:  &at,
			})
			slot = slot.Add(g.interval)
		}
	}
	return matches, nil
}

// AssignTeams draws one distinct team per participant from teamPool without
// replacement. The pool is not modified.
func (g *Generator) AssignTeams(participants, teamPool []string) (map[string]string, error) {
	if len(teamPool) < len(participants) {
		return nil, fmt.Errorf("%w: %d teams for %d participants", ErrNotEnoughTeams, len(teamPool), len(participants))
	}
	seen := make(map[string]struct{}, len(teamPool))
	pool := make([]string, 0, len(teamPool))
	for _, t := range teamPool {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		pool = append(pool, t)
	}
	if len(pool) < len(participants) {
		return nil, fmt.Errorf("%w: %d distinct teams for %d participants", ErrNotEnoughTeams, len(pool), len(participants))
	}

	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	assigned := make(map[string]string, len(participants))
	for i, p := range participants {
		assigned[p] = pool[i]
	}
	return assigned, nil
}

// MatchCount returns the number of matches in a single round robin of n participants.
func MatchCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

func validateParticipants(participants []string) error {
	if len(participants) < 2 {
		return ErrTooFewParticipants
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p == "" {
			return model.Invalid("participants", "empty participant id")
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
