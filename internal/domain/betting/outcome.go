package betting

import (
	"fmt"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/standings"
)

// Outcome is the settled result of a tournament that predictions are judged against.
type Outcome struct {
	AverageGoals float64
	TopScorer    string
	WorstDefense string
	Winner       string
	// Order lists player ids by final position.
	Order []string
	// Position maps player id to final position.
	Position map[string]int
	// Seed maps player id to seed position. Empty when the tournament is unseeded.
	Seed map[string]int
}

// NewOutcome settles a tournament. It refuses with ErrNotReady unless there
// is at least one match and every match is completed. rows must be the
// standings of matches; when nil they are computed.
func NewOutcome(matches []model.Match, rows []model.StandingsRow, seeding []string) (Outcome, error) {
	summary := standings.Summarize(matches)
	if summary.Matches == 0 {
		return Outcome{}, fmt.Errorf("%w: no matches", ErrNotReady)
	}
	if pending := summary.Pending(); pending > 0 {
		return Outcome{}, fmt.Errorf("%w: %d of %d matches not completed", ErrNotReady, pending, summary.Matches)
	}
	if rows == nil {
		rows = standings.Compute(matches)
	}

	o := Outcome{
		AverageGoals: summary.AverageGoals(),
		Order:        make([]string, len(rows)),
		Position:     make(map[string]int, len(rows)),
		Seed:         make(map[string]int, len(seeding)),
	}
	topGF, topGA := -1, -1
	for i, r := range rows {
		o.Order[i] = r.PlayerID
		o.Position[r.PlayerID] = r.Position
		if r.GoalsFor > topGF {
			topGF, o.TopScorer = r.GoalsFor, r.PlayerID
		}
		if r.GoalsAgainst > topGA {
			topGA, o.WorstDefense = r.GoalsAgainst, r.PlayerID
		}
	}
	if len(rows) > 0 {
		o.Winner = rows[0].PlayerID
	}
	for i, id := range seeding {
		o.Seed[id] = i + 1
	}
	return o, nil
}
