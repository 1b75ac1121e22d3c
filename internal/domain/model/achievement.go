package model

import "time"

// AchievementType enumerates the awards derived at tournament end.
type AchievementType string

// Achievement types.
const (
	AchievementTournamentWinner AchievementType = "tournament_winner"
	AchievementTopScorer        AchievementType = "top_scorer"
	AchievementDefensiveLeader  AchievementType = "defensive_leader"
	AchievementMostConceded     AchievementType = "most_conceded"
	AchievementKingOfEmotions   AchievementType = "king_of_emotions"
)

// Valid reports whether t is a known achievement type.
func (t AchievementType) Valid() bool {
	switch t {
	case AchievementTournamentWinner, AchievementTopScorer, AchievementDefensiveLeader,
		AchievementMostConceded, AchievementKingOfEmotions:
		return true
	}
	return false
}

// Achievement is an award granted to a player for a tournament.
type Achievement struct {
	ID           string          `json:"id" db:"id"`
	PlayerID     string          `json:"player_id" db:"player_id"`
	TournamentID string          `json:"tournament_id" db:"tournament_id"`
	Type         AchievementType `json:"type" db:"type"`
	// Rank is set for tournament_winner only (1-3).
	Rank        *int      `json:"rank,omitempty" db:"podium_rank"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Value       int       `json:"value" db:"value"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
