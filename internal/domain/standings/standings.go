// Package standings derives league tables from match results.
package standings

import (
	"sort"

	"github.com/okian/fcleague/internal/domain/model"
)

// Points awarded per match outcome.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Compute builds the ordered league table for one tournament's matches.
//
// Every player appearing in any match gets a row, in first-seen order. Only
// completed matches update the aggregates. Rows are ordered by points, goal
// difference and goals for, all descending; remaining ties keep first-seen
// order. Compute never mutates its input and always returns a fresh slice.
func Compute(matches []model.Match) []model.StandingsRow {
	index := make(map[string]int)
	rows := make([]model.StandingsRow, 0)

	row := func(playerID string) *model.StandingsRow {
		i, ok := index[playerID]
		if !ok {
			i = len(rows)
			index[playerID] = i
			rows = append(rows, model.StandingsRow{PlayerID: playerID})
		}
		return &rows[i]
	}

	for i := range matches {
		m := &matches[i]
		// Register both players before taking pointers; append may reallocate.
		row(m.Player1ID)
		row(m.Player2ID)
		if !m.IsCompleted() {
			continue
		}
		credit(row(m.Player1ID), *m.Score1, *m.Score2)
		credit(row(m.Player2ID), *m.Score2, *m.Score1)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

func credit(r *model.StandingsRow, scored, conceded int) {
	r.MatchesPlayed++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	r.GoalDifference = r.GoalsFor - r.GoalsAgainst
	switch {
	case scored > conceded:
		r.Wins++
		r.Points += PointsWin
	case scored == conceded:
		r.Draws++
		r.Points += PointsDraw
	default:
		r.Losses++
		r.Points += PointsLoss
	}
}

// Lookup returns the row for playerID.
func Lookup(rows []model.StandingsRow, playerID string) (model.StandingsRow, bool) {
	for _, r := range rows {
		if r.PlayerID == playerID {
			return r, true
		}
	}
	return model.StandingsRow{}, false
}

// Summary aggregates a tournament's match set.
type Summary struct {
	Matches   int `json:"matches"`
	Completed int `json:"completed"`
	Decisive  int `json:"decisive"`
	Draws     int `json:"draws"`
	Goals     int `json:"goals"`
}

// Pending returns the number of matches still to be played.
func (s Summary) Pending() int { return s.Matches - s.Completed }

// AverageGoals returns goals per completed match, or 0 when none completed.
func (s Summary) AverageGoals() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.Goals) / float64(s.Completed)
}

// Summarize counts completed, decisive and drawn matches and total goals.
func Summarize(matches []model.Match) Summary {
	s := Summary{Matches: len(matches)}
	for i := range matches {
		m := &matches[i]
		if !m.IsCompleted() {
			continue
		}
		s.Completed++
		s.Goals += m.TotalGoals()
		if m.IsDraw() {
			s.Draws++
		} else {
			s.Decisive++
		}
	}
	return s
}

// Merge sums several tables into a single career row for playerID.
// Position is left at zero.
func Merge(playerID string, tables ...[]model.StandingsRow) model.StandingsRow {
	total := model.StandingsRow{PlayerID: playerID}
	for _, rows := range tables {
		r, ok := Lookup(rows, playerID)
		if !ok {
			continue
		}
		total.MatchesPlayed += r.MatchesPlayed
		total.Wins += r.Wins
		total.Draws += r.Draws
		total.Losses += r.Losses
		total.GoalsFor += r.GoalsFor
		total.GoalsAgainst += r.GoalsAgainst
		total.Points += r.Points
	}
	total.GoalDifference = total.GoalsFor - total.GoalsAgainst
	return total
}
