package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/fcleague/internal/domain/model"
	types "github.com/okian/fcleague/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStandingsEntry(t *testing.T) {
	Convey("Given a standings entry with a nickname", t, func() {
		entry := types.StandingsEntry{
			StandingsRow: model.StandingsRow{PlayerID: "a", Points: 7, Position: 1},
			Nickname:     "Ace",
		}

		Convey("When encoded as JSON", func() {
			b, err := json.Marshal(entry)

			Convey("Then the row fields are flattened next to the nickname", func() {
				So(err, ShouldBeNil)
				var out map[string]any
				So(json.Unmarshal(b, &out), ShouldBeNil)
				So(out["player_id"], ShouldEqual, "a")
				So(out["points"], ShouldEqual, 7.0)
				So(out["nickname"], ShouldEqual, "Ace")
			})
		})
	})
}

func TestBettorEntry(t *testing.T) {
	Convey("Given a bettor entry", t, func() {
		b, err := json.Marshal(types.BettorEntry{Rank: 1, PlayerID: "a", TotalPoints: 9, Accuracy: 50})

		Convey("Then accuracy uses the percentage field name", func() {
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"accuracy_percentage":50`)
			So(string(b), ShouldNotContainSubstring, "nickname")
		})
	})
}
