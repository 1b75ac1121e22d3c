package betting

import "github.com/okian/fcleague/internal/domain/model"

// Default scoring policy constants.
const (
	DefaultOverUnderThreshold = 4.0
	DefaultSurpriseMargin     = 3
)

// PointTable holds the points awarded for a correct prediction of each type.
// FinalRankingPerHit is awarded per exactly matched position.
type PointTable struct {
	GoalsOverUnder     int `koanf:"points_goals_over_under" json:"goals_over_under"`
	FinalRankingPerHit int `koanf:"points_final_ranking" json:"final_ranking"`
	TopScorer          int `koanf:"points_top_scorer" json:"top_scorer"`
	WorstDefense       int `koanf:"points_worst_defense" json:"worst_defense"`
	TournamentWinner   int `koanf:"points_tournament_winner" json:"tournament_winner"`
	SurprisePlayer     int `koanf:"points_surprise_player" json:"surprise_player"`
}

// DefaultPointTable returns the league's standard point values.
func DefaultPointTable() PointTable {
	return PointTable{
		GoalsOverUnder:     2,
		FinalRankingPerHit: 1,
		TopScorer:          3,
		WorstDefense:       3,
		TournamentWinner:   5,
		SurprisePlayer:     4,
	}
}

// For returns the points for a correct prediction of type t.
func (p PointTable) For(t model.PredictionType) int {
	switch t {
	case model.PredictionGoalsOverUnder:
		return p.GoalsOverUnder
	case model.PredictionFinalRanking:
		return p.FinalRankingPerHit
	case model.PredictionTopScorer:
		return p.TopScorer
	case model.PredictionWorstDefense:
		return p.WorstDefense
	case model.PredictionTournamentWinner:
		return p.TournamentWinner
	case model.PredictionSurprisePlayer:
		return p.SurprisePlayer
	}
	return 0
}

// Validate rejects negative point values.
func (p PointTable) Validate() error {
	for _, t := range model.PredictionTypes {
		if p.For(t) < 0 {
			return model.Invalid("points", string(t)+" must not be negative")
		}
	}
	return nil
}
