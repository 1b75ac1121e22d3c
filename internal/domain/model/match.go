package model

import "time"

// Match is a single fixture between two players. Scores are nil until played.
type Match struct {
	ID           string     `json:"id" db:"id"`
	TournamentID string     `json:"tournament_id" db:"tournament_id"`
	Player1ID    string     `json:"player1_id" db:"player1_id"`
	Player2ID    string     `json:"player2_id" db:"player2_id"`
	Team1ID      string     `json:"team1_id" db:"team1_id"`
	Team2ID      string     `json:"team2_id" db:"team2_id"`
	Score1       *int       `json:"score1" db:"score1"`
	Score2       *int       `json:"score2" db:"score2"`
	Completed    bool       `json:"completed" db:"completed"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
}

// IsCompleted reports whether both scores are recorded. A match with a
// single score is not completed.
func (m *Match) IsCompleted() bool {
	return m.Score1 != nil && m.Score2 != nil
}

// TotalGoals returns the sum of both scores, or 0 for an incomplete match.
func (m *Match) TotalGoals() int {
	if !m.IsCompleted() {
		return 0
	}
	return *m.Score1 + *m.Score2
}

// IsDraw reports whether a completed match ended level.
func (m *Match) IsDraw() bool {
	return m.IsCompleted() && *m.Score1 == *m.Score2
}

// Involves reports whether playerID is one of the match's players.
func (m *Match) Involves(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// SetResult records both scores and marks the match completed.
func (m *Match) SetResult(score1, score2 int) error {
	if score1 < 0 || score2 < 0 {
		return Invalid("score", "must be non-negative")
	}
	m.Score1, m.Score2 = Score(score1), Score(score2)
	m.Completed = true
	return nil
}

// ClearResult returns the match to the unplayed state.
func (m *Match) ClearResult() {
	m.Score1, m.Score2 = nil, nil
	m.Completed = false
}

// Validate checks the structural invariants of a match.
func (m *Match) Validate() error {
	switch {
	case m.Player1ID == "" || m.Player2ID == "":
		return Invalid("player", "both players are required")
	case m.Player1ID == m.Player2ID:
		return Invalid("player", "a player cannot face themselves")
	case (m.Score1 == nil) != (m.Score2 == nil):
		return Invalid("score", "scores must be both set or both empty")
	case m.Score1 != nil && (*m.Score1 < 0 || *m.Score2 < 0):
		return Invalid("score", "must be non-negative")
	}
	return nil
}

// Score returns a pointer to n for populating match scores.
func Score(n int) *int { return &n }
