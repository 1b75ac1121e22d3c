package repository_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fcleague/internal/adapters/repository"
	"github.com/okian/fcleague/internal/domain/model"
)

func TestMemStoreIsolation(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory store with fixed ids", t, func() {
		n := 0
		s := repository.NewMemStore(repository.WithIDFunc(func() string {
			n++
			return "id-" + string(rune('0'+n))
		}))

		Convey("When records are created without ids", func() {
			p := model.Player{Nickname: "alice"}
			So(s.CreatePlayer(ctx, &p), ShouldBeNil)

			Convey("Then the id function is used", func() {
				So(p.ID, ShouldEqual, "id-1")
			})
		})

		Convey("When a caller mutates a returned match", func() {
			tour := model.Tournament{Name: "Cup"}
			So(s.CreateTournament(ctx, &tour), ShouldBeNil)
			So(s.ReplaceMatches(ctx, tour.ID, []model.Match{{Player1ID: "a", Player2ID: "b"}}), ShouldBeNil)

			list, err := s.ListMatches(ctx, tour.ID)
			So(err, ShouldBeNil)
			So(list[0].SetResult(1, 0), ShouldBeNil)

			Convey("Then the stored match is unchanged until UpdateMatch", func() {
				stored, err := s.GetMatch(ctx, list[0].ID)
				So(err, ShouldBeNil)
				So(stored.IsCompleted(), ShouldBeFalse)

				So(s.UpdateMatch(ctx, list[0]), ShouldBeNil)
				stored, _ = s.GetMatch(ctx, list[0].ID)
				So(stored.IsCompleted(), ShouldBeTrue)
			})
		})

		Convey("When a caller mutates a returned coupon", func() {
			c := model.Coupon{
				TournamentID: "t",
				PlayerID:     "p",
				Predictions:  []model.Prediction{model.NewFinalRanking("a", "b")},
			}
			So(s.CreateCoupon(ctx, &c), ShouldBeNil)

			got, _ := s.GetCoupon(ctx, c.ID)
			got.Predictions[0].Ranking[0] = "z"
			got.Predictions[0].Points = 9

			Convey("Then the stored predictions are unchanged", func() {
				again, _ := s.GetCoupon(ctx, c.ID)
				So(again.Predictions[0].Ranking, ShouldResemble, []string{"a", "b"})
				So(again.Predictions[0].Points, ShouldEqual, 0)
			})
		})

		Convey("When updating a tournament", func() {
			tour := model.Tournament{Name: "Cup", Seeding: []string{"a"}}
			So(s.CreateTournament(ctx, &tour), ShouldBeNil)
			created := tour.CreatedAt

			tour.Name = "Cup II"
			tour.CreatedAt = created.AddDate(1, 0, 0)
			So(s.UpdateTournament(ctx, tour), ShouldBeNil)

			Convey("Then the creation time is kept", func() {
				got, _ := s.GetTournament(ctx, tour.ID)
				So(got.Name, ShouldEqual, "Cup II")
				So(got.CreatedAt.Equal(created), ShouldBeTrue)
			})
		})
	})
}
