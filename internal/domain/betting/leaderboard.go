package betting

import (
	"sort"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
)

const percent = 100

// Leaderboard aggregates scored coupons per owning player. Entries are
// ordered by total points descending; ties keep the order in which players
// first appear in coupons. Accuracy is correct predictions over all
// predictions, as a percentage.
func Leaderboard(coupons []model.Coupon) []types.BettorEntry {
	index := make(map[string]int)
	entries := make([]types.BettorEntry, 0)

	for i := range coupons {
		c := &coupons[i]
		at, ok := index[c.PlayerID]
		if !ok {
			at = len(entries)
			index[c.PlayerID] = at
			entries = append(entries, types.BettorEntry{PlayerID: c.PlayerID})
		}
		e := &entries[at]
		e.TotalPoints += c.Total()
		e.Correct += c.Correct()
		e.Predictions += len(c.Predictions)
	}

	for i := range entries {
		if entries[i].Predictions > 0 {
			entries[i].Accuracy = float64(entries[i].Correct) / float64(entries[i].Predictions) * percent
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
