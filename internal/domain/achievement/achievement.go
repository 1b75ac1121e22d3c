// Package achievement derives end-of-tournament awards from standings.
package achievement

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fcleague/internal/domain/model"
)

// PodiumSize is the number of tournament_winner awards.
const PodiumSize = 3

// namespace scopes achievement ids derived with uuid.NewSHA1.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fcleague/achievement"))

// ID returns the id of the award of kind and rank in a tournament. Rank is 0
// for awards without one. Re-deriving a tournament yields the same ids.
func ID(tournamentID string, kind model.AchievementType, rank int) string {
	key := tournamentID + "|" + string(kind) + "|" + strconv.Itoa(rank)
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// Deriver computes the award set of a finished tournament.
type Deriver struct {
	templates Templates
}

// New creates a Deriver with configuration options.
func New(opts ...Option) *Deriver {
	d := &Deriver{
		templates: DefaultTemplates(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// award selects a row and the value it is recognised for.
type award struct {
	kind   model.AchievementType
	metric func(model.StandingsRow) int
	// eligible filters rows before the max is taken. Nil means all rows.
	eligible func(model.StandingsRow) bool
}

var awards = []award{
	{
		kind:   model.AchievementTopScorer,
		metric: func(r model.StandingsRow) int { return r.GoalsFor },
	},
	{
		kind:     model.AchievementDefensiveLeader,
		metric:   func(r model.StandingsRow) int { return r.GoalDifference },
		eligible: func(r model.StandingsRow) bool { return r.GoalsFor > 0 },
	},
	{
		kind:   model.AchievementMostConceded,
		metric: func(r model.StandingsRow) int { return r.GoalsAgainst },
	},
	{
		kind:   model.AchievementKingOfEmotions,
		metric: func(r model.StandingsRow) int { return r.GoalsFor + r.GoalsAgainst },
	},
}

// Derive returns the full award set for a tournament: the podium by rank,
// then top scorer, defensive leader, most conceded and king of emotions.
// rows must be in standings order; ties go to the earlier row. An award
// whose best value is not positive is skipped. Empty standings yield no
// achievements. Every award is dated at; the same input always gives the
// same output.
func (d *Deriver) Derive(tournamentID, tournamentName string, at time.Time, rows []model.StandingsRow) []model.Achievement {
	out := make([]model.Achievement, 0, PodiumSize+len(awards))
	if len(rows) == 0 {
		return out
	}
	createdAt := at.UTC()

	for i := 0; i < len(rows) && i < PodiumSize; i++ {
		r := rows[i]
		rank := r.Position
		title, desc := d.templates.Podium[rank].render(tournamentName, r.Points, rank)
		out = append(out, model.Achievement{
			ID:           ID(tournamentID, model.AchievementTournamentWinner, rank),
			PlayerID:     r.PlayerID,
			TournamentID: tournamentID,
			Type:         model.AchievementTournamentWinner,
			Rank:         &rank,
			Title:        title,
			Description:  desc,
			Value:        r.Points,
			CreatedAt:    createdAt,
		})
	}

	for _, a := range awards {
		r, value, ok := best(rows, a)
		if !ok || value <= 0 {
			continue
		}
		title, desc := d.templates.Awards[a.kind].render(tournamentName, value, 0)
		out = append(out, model.Achievement{
			ID:           ID(tournamentID, a.kind, 0),
			PlayerID:     r.PlayerID,
			TournamentID: tournamentID,
			Type:         a.kind,
			Title:        title,
			Description:  desc,
			Value:        value,
			CreatedAt:    createdAt,
		})
	}
	return out
}

// best returns the first eligible row with the maximum metric.
func best(rows []model.StandingsRow, a award) (model.StandingsRow, int, bool) {
	var (
		winner model.StandingsRow
		top    int
		found  bool
	)
	for _, r := range rows {
		if a.eligible != nil && !a.eligible(r) {
			continue
		}
		if v := a.metric(r); !found || v > top {
			winner, top, found = r, v, true
		}
	}
	return winner, top, found
}
