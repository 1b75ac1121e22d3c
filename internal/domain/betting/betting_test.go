package betting_test

import (
	"errors"
	"testing"

	"github.com/okian/fcleague/internal/domain/betting"
	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func played(p1, p2 string, s1, s2 int) model.Match {
	return model.Match{Player1ID: p1, Player2ID: p2, Score1: model.Score(s1), Score2: model.Score(s2), Completed: true}
}

func fourPlayerRound() []model.Match {
	return []model.Match{
		played("A", "B", 3, 1),
		played("A", "C", 1, 1),
		played("A", "D", 2, 0),
		played("B", "C", 2, 1),
		played("B", "D", 0, 0),
		played("C", "D", 2, 0),
	}
}

func settle(matches []model.Match, seeding ...string) *betting.Outcome {
	o, err := betting.NewOutcome(matches, standings.Compute(matches), seeding)
	So(err, ShouldBeNil)
	return &o
}

func TestNewOutcome(t *testing.T) {
	Convey("Given a completed round robin", t, func() {
		o := settle(fourPlayerRound())

		Convey("Then the settled facts follow the standings", func() {
			So(o.Winner, ShouldEqual, "A")
			So(o.TopScorer, ShouldEqual, "A")
			So(o.WorstDefense, ShouldEqual, "B")
			So(o.Order, ShouldResemble, []string{"A", "C", "B", "D"})
			So(o.Position["D"], ShouldEqual, 4)
			So(o.AverageGoals, ShouldAlmostEqual, 13.0/6.0)
		})
	})

	Convey("Given a tournament with a pending match", t, func() {
		matches := append(fourPlayerRound(), model.Match{Player1ID: "A", Player2ID: "E"})
		_, err := betting.NewOutcome(matches, nil, nil)

		Convey("Then scoring is refused as not ready", func() {
			So(errors.Is(err, betting.ErrNotReady), ShouldBeTrue)
			So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
		})
	})

	Convey("Given a tournament with no matches", t, func() {
		_, err := betting.NewOutcome(nil, nil, nil)

		Convey("Then scoring is refused as not ready", func() {
			So(errors.Is(err, betting.ErrNotReady), ShouldBeTrue)
		})
	})

	Convey("Given a match with a single score", t, func() {
		half := model.Match{Player1ID: "A", Player2ID: "B", Score1: model.Score(1)}
		_, err := betting.NewOutcome([]model.Match{played("A", "C", 1, 0), half}, nil, nil)

		Convey("Then it counts as incomplete", func() {
			So(errors.Is(err, betting.ErrNotReady), ShouldBeTrue)
		})
	})
}

func TestScorePrediction(t *testing.T) {
	scorer := betting.New()

	Convey("Given two completed matches with 3 and 6 goals", t, func() {
		o := settle([]model.Match{played("A", "B", 2, 1), played("A", "C", 4, 2)})

		Convey("Then over is correct and under is not", func() {
			over := scorer.ScorePrediction(model.NewOverUnder(model.Over), o)
			under := scorer.ScorePrediction(model.NewOverUnder(model.Under), o)
			So(o.AverageGoals, ShouldEqual, 4.5)
			So(*over.IsCorrect, ShouldBeTrue)
			So(over.Points, ShouldEqual, betting.DefaultPointTable().GoalsOverUnder)
			So(*under.IsCorrect, ShouldBeFalse)
			So(under.Points, ShouldEqual, 0)
		})
	})

	Convey("Given an average of exactly four goals", t, func() {
		o := settle([]model.Match{played("A", "B", 2, 2), played("A", "C", 3, 1)})

		Convey("Then neither side is awarded", func() {
			for _, side := range []model.OverUnder{model.Over, model.Under} {
				p := scorer.ScorePrediction(model.NewOverUnder(side), o)
				So(p.IsCorrect, ShouldNotBeNil)
				So(*p.IsCorrect, ShouldBeFalse)
				So(p.Points, ShouldEqual, 0)
			}
		})
	})

	Convey("Given a low scoring tournament", t, func() {
		o := settle([]model.Match{played("A", "B", 1, 0)})

		Convey("Then under is correct", func() {
			So(*scorer.ScorePrediction(model.NewOverUnder(model.Under), o).IsCorrect, ShouldBeTrue)
		})
	})

	Convey("Given the settled four player round robin", t, func() {
		o := settle(fourPlayerRound())

		Convey("When A is picked as tournament winner", func() {
			p := scorer.ScorePrediction(model.NewPlayerPick(model.PredictionTournamentWinner, "A"), o)

			Convey("Then the pick is correct", func() {
				So(*p.IsCorrect, ShouldBeTrue)
				So(p.Points, ShouldEqual, 5)
			})
		})

		Convey("When single player picks miss", func() {
			for _, kind := range []model.PredictionType{
				model.PredictionTournamentWinner, model.PredictionTopScorer, model.PredictionWorstDefense,
			} {
				p := scorer.ScorePrediction(model.NewPlayerPick(kind, "D"), o)
				So(*p.IsCorrect, ShouldBeFalse)
				So(p.Points, ShouldEqual, 0)
			}
		})

		Convey("When worst defense and top scorer are picked right", func() {
			So(*scorer.ScorePrediction(model.NewPlayerPick(model.PredictionWorstDefense, "B"), o).IsCorrect, ShouldBeTrue)
			So(*scorer.ScorePrediction(model.NewPlayerPick(model.PredictionTopScorer, "A"), o).IsCorrect, ShouldBeTrue)
		})

		Convey("When a final ranking hits two exact positions", func() {
			p := scorer.ScorePrediction(model.NewFinalRanking("A", "B", "C", "D"), o)

			Convey("Then points are awarded per hit", func() {
				So(*p.IsCorrect, ShouldBeTrue)
				So(p.Points, ShouldEqual, 2)
			})
		})

		Convey("When a partial final ranking hits nothing", func() {
			p := scorer.ScorePrediction(model.NewFinalRanking("D", "A"), o)

			Convey("Then it is incorrect", func() {
				So(*p.IsCorrect, ShouldBeFalse)
				So(p.Points, ShouldEqual, 0)
			})
		})

		Convey("When a ranking is longer than the table", func() {
			p := scorer.ScorePrediction(model.NewFinalRanking("A", "C", "B", "D", "E"), o)
			So(p.Points, ShouldEqual, 4)
		})

		Convey("When a surprise player is picked without a seeding", func() {
			p := scorer.ScorePrediction(model.NewPlayerPick(model.PredictionSurprisePlayer, "C"), o)

			Convey("Then it stays unjudged", func() {
				So(p.IsCorrect, ShouldBeNil)
				So(p.Points, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a seeded tournament", t, func() {
		o := settle(fourPlayerRound(), "B", "D", "E", "F", "C", "A")

		Convey("Then a player finishing enough places above their seed is a surprise", func() {
			// A was seeded 6th and won.
			a := scorer.ScorePrediction(model.NewPlayerPick(model.PredictionSurprisePlayer, "A"), o)
			So(*a.IsCorrect, ShouldBeTrue)
			So(a.Points, ShouldEqual, 4)

			// C was seeded 5th and finished 2nd.
			c := scorer.ScorePrediction(model.NewPlayerPick(model.PredictionSurprisePlayer, "C"), o)
			So(*c.IsCorrect, ShouldBeTrue)

			// B was seeded 1st and finished 3rd.
			b := scorer.ScorePrediction(model.NewPlayerPick(model.PredictionSurprisePlayer, "B"), o)
			So(*b.IsCorrect, ShouldBeFalse)
		})

		Convey("And a stricter margin is configurable", func() {
			strict := betting.New(betting.WithSurpriseMargin(5))
			So(*strict.ScorePrediction(model.NewPlayerPick(model.PredictionSurprisePlayer, "C"), o).IsCorrect, ShouldBeFalse)
			So(*strict.ScorePrediction(model.NewPlayerPick(model.PredictionSurprisePlayer, "A"), o).IsCorrect, ShouldBeTrue)
		})
	})
}

func TestScoreCoupon(t *testing.T) {
	Convey("Given a coupon for the four player round robin", t, func() {
		o := settle(fourPlayerRound())
		coupon := model.Coupon{
			ID:           "c1",
			TournamentID: "t1",
			PlayerID:     "p9",
			Predictions: []model.Prediction{
				model.NewPlayerPick(model.PredictionTournamentWinner, "A"),
				model.NewOverUnder(model.Under),
				model.NewFinalRanking("A", "C"),
				model.NewPlayerPick(model.PredictionSurprisePlayer, "D"),
			},
		}

		Convey("When scored with the default table", func() {
			scored, err := betting.New().ScoreCoupon(coupon, o)

			Convey("Then the total is the sum of prediction points", func() {
				So(err, ShouldBeNil)
				So(*scored.Predictions[0].IsCorrect, ShouldBeTrue)
				So(*scored.Predictions[1].IsCorrect, ShouldBeTrue)
				So(scored.Predictions[2].Points, ShouldEqual, 2)
				So(scored.Predictions[3].IsCorrect, ShouldBeNil)
				So(scored.TotalPoints, ShouldEqual, 5+2+2)
				So(coupon.Predictions[0].IsCorrect, ShouldBeNil)
			})
		})

		Convey("When scored with a custom table", func() {
			table := betting.DefaultPointTable()
			table.TournamentWinner = 10
			table.FinalRankingPerHit = 3
			scored, err := betting.New(betting.WithPointTable(table), betting.WithOverUnderThreshold(1.5)).ScoreCoupon(coupon, o)

			Convey("Then the configured values apply", func() {
				So(err, ShouldBeNil)
				So(scored.Predictions[0].Points, ShouldEqual, 10)
				So(*scored.Predictions[1].IsCorrect, ShouldBeFalse)
				So(scored.Predictions[2].Points, ShouldEqual, 6)
				So(scored.TotalPoints, ShouldEqual, 16)
			})
		})

		Convey("When the surprise pick was settled by hand", func() {
			scorer := betting.New()
			ruled, err := scorer.Adjudicate(coupon.Predictions[3], true)
			So(err, ShouldBeNil)
			coupon.Predictions[3] = ruled
			scored, err := scorer.ScoreCoupon(coupon, o)

			Convey("Then the ruling stands on rescoring", func() {
				So(err, ShouldBeNil)
				So(*scored.Predictions[3].IsCorrect, ShouldBeTrue)
				So(scored.Predictions[3].Points, ShouldEqual, 4)
				So(scored.TotalPoints, ShouldEqual, 13)
			})
		})

		Convey("When a prediction payload is malformed", func() {
			coupon.Predictions = append(coupon.Predictions, model.Prediction{Type: model.PredictionTopScorer})
			_, err := betting.New().ScoreCoupon(coupon, o)

			Convey("Then scoring fails validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})
	})

	Convey("Given a prediction that is scored automatically", t, func() {
		_, err := betting.New().Adjudicate(model.NewOverUnder(model.Over), true)

		Convey("Then it cannot be adjudicated", func() {
			So(errors.Is(err, betting.ErrNotAdjudicable), ShouldBeTrue)
		})
	})
}

func TestLeaderboard(t *testing.T) {
	yes, no := true, false
	pick := func(correct *bool, points int) model.Prediction {
		return model.Prediction{Type: model.PredictionTopScorer, PlayerID: "x", IsCorrect: correct, Points: points}
	}

	Convey("Given scored coupons from three players", t, func() {
		coupons := []model.Coupon{
			{PlayerID: "ann", Predictions: []model.Prediction{pick(&yes, 3), pick(&no, 0)}},
			{PlayerID: "bob", Predictions: []model.Prediction{pick(&yes, 3), pick(&yes, 2)}},
			{PlayerID: "cid", Predictions: []model.Prediction{pick(&no, 0)}},
			{PlayerID: "ann", Predictions: []model.Prediction{pick(&yes, 2)}},
			{PlayerID: "dee", Predictions: []model.Prediction{pick(&yes, 5), pick(nil, 0)}},
		}
		board := betting.Leaderboard(coupons)

		Convey("Then players are ranked by total points with ties in first-seen order", func() {
			ids := make([]string, len(board))
			for i, e := range board {
				ids[i] = e.PlayerID
				So(e.Rank, ShouldEqual, i+1)
			}
			So(ids, ShouldResemble, []string{"ann", "bob", "dee", "cid"})
		})

		Convey("And totals and accuracy are aggregated across coupons", func() {
			So(board[0].TotalPoints, ShouldEqual, 5)
			So(board[0].Predictions, ShouldEqual, 3)
			So(board[0].Correct, ShouldEqual, 2)
			So(board[0].Accuracy, ShouldAlmostEqual, 200.0/3.0)
			So(board[1].Accuracy, ShouldEqual, 100.0)
			So(board[2].Accuracy, ShouldEqual, 50.0)
			So(board[3].Accuracy, ShouldEqual, 0.0)
		})
	})

	Convey("Given no coupons", t, func() {
		So(betting.Leaderboard(nil), ShouldBeEmpty)
	})
}
