package leaguesim

import (
	"errors"
	"fmt"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/standings"
	"github.com/okian/fcleague/internal/domain/types"
)

const podiumSize = 3

// Verification errors.
var (
	ErrStandingsMismatch = errors.New("standings mismatch")
	ErrPodiumMismatch    = errors.New("podium mismatch")
)

// VerifyStandings recomputes the table from matches and compares it row by
// row with what the server returned.
func VerifyStandings(matches []model.Match, got []types.StandingsEntry) error {
	want := standings.Compute(matches)
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d rows, want %d", ErrStandingsMismatch, len(got), len(want))
	}
	for i := range want {
		if got[i].StandingsRow != want[i] {
			return fmt.Errorf("%w: position %d is %+v, want %+v", ErrStandingsMismatch, i+1, got[i].StandingsRow, want[i])
		}
	}
	return nil
}

// VerifyPodium checks that the tournament_winner achievements name the
// first three rows of the table at their positions.
func VerifyPodium(table []types.StandingsEntry, set []model.Achievement) error {
	var podium []model.Achievement
	for _, a := range set {
		if a.Type == model.AchievementTournamentWinner {
			podium = append(podium, a)
		}
	}

	want := min(podiumSize, len(table))
	if len(podium) != want {
		return fmt.Errorf("%w: %d podium awards, want %d", ErrPodiumMismatch, len(podium), want)
	}
	for _, a := range podium {
		if a.Rank == nil || *a.Rank < 1 || *a.Rank > want {
			return fmt.Errorf("%w: award %s has no podium rank", ErrPodiumMismatch, a.ID)
		}
		row := table[*a.Rank-1]
		if row.PlayerID != a.PlayerID {
			return fmt.Errorf("%w: rank %d awarded to %s, table has %s", ErrPodiumMismatch, *a.Rank, a.PlayerID, row.PlayerID)
		}
	}
	return nil
}
