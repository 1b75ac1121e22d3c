package standings_test

import (
	"math/rand"
	"testing"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func played(p1, p2 string, s1, s2 int) model.Match {
	return model.Match{Player1ID: p1, Player2ID: p2, Score1: model.Score(s1), Score2: model.Score(s2), Completed: true}
}

func pending(p1, p2 string) model.Match {
	return model.Match{Player1ID: p1, Player2ID: p2}
}

// fourPlayerRound is a full round robin between A, B, C and D.
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

func order(rows []model.StandingsRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.PlayerID
	}
	return ids
}

func TestCompute(t *testing.T) {
	Convey("Given a completed four player round robin", t, func() {
		rows := standings.Compute(fourPlayerRound())

		Convey("Then the table is ordered A, C, B, D", func() {
			So(order(rows), ShouldResemble, []string{"A", "C", "B", "D"})
		})

		Convey("And the leader's aggregates are exact", func() {
			a := rows[0]
			So(a.Points, ShouldEqual, 7)
			So(a.Wins, ShouldEqual, 2)
			So(a.Draws, ShouldEqual, 1)
			So(a.Losses, ShouldEqual, 0)
			So(a.GoalsFor, ShouldEqual, 6)
			So(a.GoalsAgainst, ShouldEqual, 2)
			So(a.MatchesPlayed, ShouldEqual, 3)
			So(a.Position, ShouldEqual, 1)
		})

		Convey("And C ranks above B on goal difference at equal points", func() {
			c, b := rows[1], rows[2]
			So(c.Points, ShouldEqual, 4)
			So(b.Points, ShouldEqual, 4)
			So(c.GoalDifference, ShouldEqual, 1)
			So(b.GoalDifference, ShouldEqual, -1)
			So(c.Position, ShouldEqual, 2)
			So(b.Position, ShouldEqual, 3)
		})

		Convey("And D is last", func() {
			d := rows[3]
			So(d.Position, ShouldEqual, 4)
			So(d.Points, ShouldEqual, 1)
			So(d.GoalsFor, ShouldEqual, 0)
		})
	})

	Convey("Given a tournament with no completed matches", t, func() {
		rows := standings.Compute([]model.Match{pending("X", "Y"), pending("Z", "X")})

		Convey("Then every scheduled player is listed in first-seen order with zeros", func() {
			So(order(rows), ShouldResemble, []string{"X", "Y", "Z"})
			for i, r := range rows {
				So(r.Position, ShouldEqual, i+1)
				So(r.MatchesPlayed, ShouldEqual, 0)
				So(r.Points, ShouldEqual, 0)
			}
		})
	})

	Convey("Given no matches at all", t, func() {
		rows := standings.Compute(nil)

		Convey("Then the table is empty but not nil", func() {
			So(rows, ShouldNotBeNil)
			So(rows, ShouldBeEmpty)
		})
	})

	Convey("Given a match with a single recorded score", t, func() {
		m := pending("A", "B")
		m.Score1 = model.Score(5)
		rows := standings.Compute([]model.Match{m, played("A", "C", 0, 1)})

		Convey("Then it is ignored rather than partially credited", func() {
			a, _ := standings.Lookup(rows, "A")
			b, _ := standings.Lookup(rows, "B")
			So(a.MatchesPlayed, ShouldEqual, 1)
			So(a.GoalsFor, ShouldEqual, 0)
			So(b.MatchesPlayed, ShouldEqual, 0)
			So(rows[0].PlayerID, ShouldEqual, "C")
		})
	})

	Convey("Given rows tied on points, difference and goals", t, func() {
		rows := standings.Compute([]model.Match{played("P", "Q", 1, 1), played("R", "S", 2, 2)})

		Convey("Then goals for and then first-seen order decide", func() {
			So(order(rows), ShouldResemble, []string{"R", "S", "P", "Q"})
		})
	})
}

func TestComputeProperties(t *testing.T) {
	Convey("Given randomly generated tournaments", t, func() {
		rng := rand.New(rand.NewSource(7))
		players := []string{"a", "b", "c", "d", "e", "f"}

		for round := 0; round < 50; round++ {
			var matches []model.Match
			for i := 0; i < len(players); i++ {
				for j := i + 1; j < len(players); j++ {
					switch rng.Intn(4) {
					case 0:
						matches = append(matches, pending(players[i], players[j]))
					default:
						matches = append(matches, played(players[i], players[j], rng.Intn(6), rng.Intn(6)))
					}
				}
			}
			rows := standings.Compute(matches)
			summary := standings.Summarize(matches)

			total := 0
			for _, r := range rows {
				total += r.Points
				So(r.GoalDifference, ShouldEqual, r.GoalsFor-r.GoalsAgainst)
				So(r.Wins+r.Draws+r.Losses, ShouldEqual, r.MatchesPlayed)
			}
			So(total, ShouldEqual, 3*summary.Decisive+2*summary.Draws)
			So(standings.Compute(matches), ShouldResemble, rows)
		}
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a partly played round", t, func() {
		matches := append(fourPlayerRound(), pending("A", "E"))
		s := standings.Summarize(matches)

		Convey("Then counts and averages cover completed matches only", func() {
			So(s.Matches, ShouldEqual, 7)
			So(s.Completed, ShouldEqual, 6)
			So(s.Pending(), ShouldEqual, 1)
			So(s.Draws, ShouldEqual, 2)
			So(s.Decisive, ShouldEqual, 4)
			So(s.Goals, ShouldEqual, 13)
			So(s.AverageGoals(), ShouldAlmostEqual, 13.0/6.0)
		})
	})

	Convey("Given no completed matches", t, func() {
		So(standings.Summarize([]model.Match{pending("A", "B")}).AverageGoals(), ShouldEqual, 0.0)
	})
}

func TestMerge(t *testing.T) {
	Convey("Given two tournaments for the same player", t, func() {
		first := standings.Compute(fourPlayerRound())
		second := standings.Compute([]model.Match{played("A", "Z", 0, 4)})
		total := standings.Merge("A", first, second, standings.Compute(nil))

		Convey("Then the career row sums both", func() {
			So(total.MatchesPlayed, ShouldEqual, 4)
			So(total.Points, ShouldEqual, 7)
			So(total.GoalsFor, ShouldEqual, 6)
			So(total.GoalsAgainst, ShouldEqual, 6)
			So(total.GoalDifference, ShouldEqual, 0)
			So(total.Losses, ShouldEqual, 1)
		})
	})
}
