package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/fcleague/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatch(t *testing.T) {
	convey.Convey("Given a scheduled match", t, func() {
		m := model.Match{ID: "m1", Player1ID: "a", Player2ID: "b", Team1ID: "t1", Team2ID: "t2"}

		convey.Convey("Then it is not completed and valid", func() {
			convey.So(m.IsCompleted(), convey.ShouldBeFalse)
			convey.So(m.TotalGoals(), convey.ShouldEqual, 0)
			convey.So(m.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a result is recorded", func() {
			err := m.SetResult(3, 1)

			convey.Convey("Then it is completed with both scores", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.IsCompleted(), convey.ShouldBeTrue)
				convey.So(m.Completed, convey.ShouldBeTrue)
				convey.So(m.TotalGoals(), convey.ShouldEqual, 4)
				convey.So(m.IsDraw(), convey.ShouldBeFalse)
			})

			convey.Convey("And clearing it returns to unplayed", func() {
				m.ClearResult()
				convey.So(m.IsCompleted(), convey.ShouldBeFalse)
				convey.So(m.Completed, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a negative score is recorded", func() {
			err := m.SetResult(-1, 0)

			convey.Convey("Then it is rejected as a validation error", func() {
				convey.So(errors.Is(err, model.ErrValidation), convey.ShouldBeTrue)
				convey.So(m.IsCompleted(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When only one score is present", func() {
			m.Score1 = model.Score(2)

			convey.Convey("Then it is not completed and fails validation", func() {
				convey.So(m.IsCompleted(), convey.ShouldBeFalse)
				convey.So(m.TotalGoals(), convey.ShouldEqual, 0)
				convey.So(errors.Is(m.Validate(), model.ErrValidation), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When both players are the same", func() {
			m.Player2ID = "a"

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(m.Validate(), model.ErrValidation), convey.ShouldBeTrue)
			})
		})

		convey.Convey("Then it involves only its two players", func() {
			convey.So(m.Involves("a"), convey.ShouldBeTrue)
			convey.So(m.Involves("b"), convey.ShouldBeTrue)
			convey.So(m.Involves("c"), convey.ShouldBeFalse)
		})
	})
}

func TestErrors(t *testing.T) {
	convey.Convey("Given a not-ready error", t, func() {
		err := model.NotReady("2 matches pending")

		convey.Convey("Then it is both a validation error and not ready", func() {
			convey.So(errors.Is(err, model.ErrValidation), convey.ShouldBeTrue)
			convey.So(errors.Is(err, model.ErrNotReady), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "2 matches pending")
		})
	})

	convey.Convey("Given a plain validation error", t, func() {
		err := model.Invalid("nickname", "must not be empty")

		convey.Convey("Then it is not a not-ready error", func() {
			convey.So(errors.Is(err, model.ErrValidation), convey.ShouldBeTrue)
			convey.So(errors.Is(err, model.ErrNotReady), convey.ShouldBeFalse)
			convey.So(err.Error(), convey.ShouldEqual, "validation: nickname: must not be empty")
		})
	})
}

func TestTournament(t *testing.T) {
	convey.Convey("Given a seeded tournament", t, func() {
		tr := model.Tournament{Name: "Autumn Cup", Seeding: []string{"a", "b", "c"}}

		convey.Convey("Then it validates", func() {
			convey.So(tr.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the seeding repeats a player", func() {
			tr.Seeding = append(tr.Seeding, "a")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(tr.Validate(), model.ErrValidation), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a tournament without a name", t, func() {
		convey.So(errors.Is(model.Tournament{}.Validate(), model.ErrValidation), convey.ShouldBeTrue)
		convey.So(errors.Is(model.Player{}.Validate(), model.ErrValidation), convey.ShouldBeTrue)
		convey.So(errors.Is(model.Team{Name: " "}.Validate(), model.ErrValidation), convey.ShouldBeTrue)
	})
}
