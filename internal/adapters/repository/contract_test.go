package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/fcleague/internal/adapters/repository"
	"github.com/okian/fcleague/internal/domain/model"
)

// runStoreContract checks the behaviour every Store must share.
func runStoreContract(t *testing.T, open func(t *testing.T) repository.Store) {
	ctx := context.Background()

	t.Run("players", func(t *testing.T) {
		s := open(t)

		alice := model.Player{Nickname: "alice"}
		require.NoError(t, s.CreatePlayer(ctx, &alice))
		assert.NotEmpty(t, alice.ID)
		assert.False(t, alice.CreatedAt.IsZero())

		dup := model.Player{Nickname: "alice"}
		err := s.CreatePlayer(ctx, &dup)
		assert.True(t, errors.Is(err, repository.ErrConflict), "duplicate nickname: %v", err)

		bob := model.Player{Nickname: "bob"}
		require.NoError(t, s.CreatePlayer(ctx, &bob))

		got, err := s.GetPlayer(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Nickname)

		email := "alice@league.test"
		got.Email = &email
		require.NoError(t, s.UpdatePlayer(ctx, got))
		got, err = s.GetPlayer(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Email)
		assert.Equal(t, email, *got.Email)

		got.Nickname = "bob"
		assert.True(t, errors.Is(s.UpdatePlayer(ctx, got), repository.ErrConflict))

		list, err := s.ListPlayers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "alice", list[0].Nickname)
		assert.Equal(t, "bob", list[1].Nickname)

		_, err = s.GetPlayer(ctx, "missing")
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.True(t, errors.Is(s.UpdatePlayer(ctx, model.Player{ID: "missing", Nickname: "x"}), repository.ErrNotFound))
		assert.True(t, errors.Is(s.DeletePlayer(ctx, "missing"), repository.ErrNotFound))
	})

	t.Run("teams", func(t *testing.T) {
		s := open(t)

		city := model.Team{Name: "City"}
		require.NoError(t, s.CreateTeam(ctx, &city))
		assert.True(t, errors.Is(s.CreateTeam(ctx, &model.Team{Name: "City"}), repository.ErrConflict))

		city.Name = "Man City"
		require.NoError(t, s.UpdateTeam(ctx, city))
		got, err := s.GetTeam(ctx, city.ID)
		require.NoError(t, err)
		assert.Equal(t, "Man City", got.Name)

		require.NoError(t, s.DeleteTeam(ctx, city.ID))
		_, err = s.GetTeam(ctx, city.ID)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("schedule and results", func(t *testing.T) {
		s := open(t)
		f := seed(t, s, 3)

		list, err := s.ListMatches(ctx, f.tournament.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, m := range list {
			assert.Equal(t, f.matches[i].ID, m.ID, "insertion order")
			assert.False(t, m.IsCompleted())
		}

		m := list[1]
		require.NoError(t, m.SetResult(2, 1))
		require.NoError(t, s.UpdateMatch(ctx, m))

		got, err := s.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
		require.NotNil(t, got.Score1)
		assert.Equal(t, 2, *got.Score1)
		assert.Equal(t, 1, *got.Score2)

		byPlayer, err := s.ListMatchesByPlayer(ctx, f.players[0].ID)
		require.NoError(t, err)
		assert.Len(t, byPlayer, 2)

		assert.True(t, errors.Is(s.DeleteTeam(ctx, f.teams[0].ID), repository.ErrConflict), "team in use")

		fresh := []model.Match{{Player1ID: f.players[0].ID, Player2ID: f.players[2].ID, Team1ID: f.teams[0].ID, Team2ID: f.teams[2].ID}}
		err = s.ReplaceMatches(ctx, f.tournament.ID, fresh)
		assert.True(t, errors.Is(err, repository.ErrSchedulePlayed), "played schedule: %v", err)
		assert.True(t, errors.Is(err, repository.ErrConflict))
		list, err = s.ListMatches(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.Len(t, list, 3, "refused replace keeps the schedule")

		m.ClearResult()
		require.NoError(t, s.UpdateMatch(ctx, m))
		require.NoError(t, s.ReplaceMatches(ctx, f.tournament.ID, fresh))
		list, err = s.ListMatches(ctx, f.tournament.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, fresh[0].ID, list[0].ID)
		assert.Equal(t, f.tournament.ID, list[0].TournamentID)

		require.NoError(t, s.ReplaceMatches(ctx, f.tournament.ID, nil))
		list, err = s.ListMatches(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("tournament seeding round trip", func(t *testing.T) {
		s := open(t)
		f := seed(t, s, 3)

		tour, err := s.GetTournament(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{f.players[2].ID, f.players[1].ID, f.players[0].ID}, tour.Seeding)
		assert.True(t, tour.Active)

		end := tour.StartDate.Add(48 * time.Hour)
		tour.EndDate = &end
		tour.Active = false
		require.NoError(t, s.UpdateTournament(ctx, tour))

		tour, err = s.GetTournament(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.False(t, tour.Active)
		require.NotNil(t, tour.EndDate)
		assert.True(t, tour.EndDate.Equal(end))
	})

	t.Run("achievements replace", func(t *testing.T) {
		s := open(t)
		f := seed(t, s, 2)

		first := []model.Achievement{
			{PlayerID: f.players[0].ID, Type: model.AchievementTournamentWinner, Rank: intPtr(1), Title: "Champion", Value: 6},
			{PlayerID: f.players[1].ID, Type: model.AchievementTournamentWinner, Rank: intPtr(2), Title: "Runner-up", Value: 0},
		}
		require.NoError(t, s.ReplaceAchievements(ctx, f.tournament.ID, first))
		require.NoError(t, s.ReplaceAchievements(ctx, f.tournament.ID, first[:1]))

		list, err := s.ListAchievements(ctx, f.tournament.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Champion", list[0].Title)
		require.NotNil(t, list[0].Rank)
		assert.Equal(t, 1, *list[0].Rank)

		mine, err := s.ListAchievementsByPlayer(ctx, f.players[1].ID)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})

	t.Run("coupons", func(t *testing.T) {
		s := open(t)
		f := seed(t, s, 3)

		c := model.Coupon{
			TournamentID: f.tournament.ID,
			PlayerID:     f.players[1].ID,
			Name:         "all in",
			Predictions: []model.Prediction{
				model.NewOverUnder(model.Over),
				model.NewFinalRanking(f.players[0].ID, f.players[1].ID),
				model.NewPlayerPick(model.PredictionTopScorer, f.players[2].ID),
			},
		}
		require.NoError(t, s.CreateCoupon(ctx, &c))
		require.NotEmpty(t, c.ID)
		for _, p := range c.Predictions {
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, c.ID, p.CouponID)
		}

		got, err := s.GetCoupon(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, got.Predictions, 3)
		assert.Equal(t, model.Over, got.Predictions[0].Side)
		assert.Equal(t, []string{f.players[0].ID, f.players[1].ID}, got.Predictions[1].Ranking)
		assert.Equal(t, f.players[2].ID, got.Predictions[2].PlayerID)
		assert.Nil(t, got.Predictions[0].IsCorrect)

		yes := true
		got.Predictions[0].IsCorrect = &yes
		got.Predictions[0].Points = 2
		got.TotalPoints = 2
		got.Submitted = true
		require.NoError(t, s.UpdateCoupon(ctx, got))

		other := model.Coupon{
			TournamentID: f.tournament.ID,
			PlayerID:     f.players[0].ID,
			Predictions:  []model.Prediction{model.NewPlayerPick(model.PredictionTournamentWinner, f.players[0].ID)},
		}
		require.NoError(t, s.CreateCoupon(ctx, &other))

		list, err := s.ListCoupons(ctx, f.tournament.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, c.ID, list[0].ID, "creation order")
		assert.True(t, list[0].Submitted)
		assert.Equal(t, 2, list[0].TotalPoints)
		require.NotNil(t, list[0].Predictions[0].IsCorrect)
		assert.True(t, *list[0].Predictions[0].IsCorrect)
		assert.Len(t, list[1].Predictions, 1)

		require.NoError(t, s.DeleteCoupon(ctx, other.ID))
		_, err = s.GetCoupon(ctx, other.ID)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("delete player cascades", func(t *testing.T) {
		s := open(t)
		f := seed(t, s, 3)
		victim := f.players[0].ID

		require.NoError(t, s.ReplaceAchievements(ctx, f.tournament.ID, []model.Achievement{
			{PlayerID: victim, Type: model.AchievementTopScorer, Title: "Golden Boot", Value: 3},
		}))
		c := model.Coupon{
			TournamentID: f.tournament.ID,
			PlayerID:     victim,
			Predictions:  []model.Prediction{model.NewOverUnder(model.Under)},
		}
		require.NoError(t, s.CreateCoupon(ctx, &c))

		require.NoError(t, s.DeletePlayer(ctx, victim))

		matches, err := s.ListMatches(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.Len(t, matches, 1, "only the match between the other two remains")
		ach, err := s.ListAchievements(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.Empty(t, ach)
		coupons, err := s.ListCoupons(ctx, f.tournament.ID)
		require.NoError(t, err)
		assert.Empty(t, coupons)
	})

	t.Run("delete tournament cascades", func(t *testing.T) {
		s := open(t)
		f := seed(t, s, 2)

		require.NoError(t, s.DeleteTournament(ctx, f.tournament.ID))
		_, err := s.GetTournament(ctx, f.tournament.ID)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		matches, err := s.ListMatchesByPlayer(ctx, f.players[0].ID)
		require.NoError(t, err)
		assert.Empty(t, matches)

		list, err := s.ListTournaments(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

type fixture struct {
	players    []model.Player
	teams      []model.Team
	tournament model.Tournament
	matches    []model.Match
}

// seed stores n players with one team each and a round robin between them.
func seed(t *testing.T, s repository.Store, n int) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	for i := 0; i < n; i++ {
		p := model.Player{Nickname: string(rune('a' + i))}
		require.NoError(t, s.CreatePlayer(ctx, &p))
		tm := model.Team{Name: "Team " + string(rune('A'+i))}
		require.NoError(t, s.CreateTeam(ctx, &tm))
		f.players = append(f.players, p)
		f.teams = append(f.teams, tm)
	}

	f.tournament = model.Tournament{
		Name:      "Spring Cup",
		StartDate: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		Active:    true,
	}
	for i := n - 1; i >= 0; i-- {
		f.tournament.Seeding = append(f.tournament.Seeding, f.players[i].ID)
	}
	require.NoError(t, s.CreateTournament(ctx, &f.tournament))

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			at := f.tournament.StartDate.Add(time.Duration(len(f.matches)) * time.Hour)
			f.matches = append(f.matches, model.Match{
				TournamentID: f.tournament.ID,
				Player1ID:    f.players[i].ID,
				Player2ID:    f.players[j].ID,
				Team1ID:      f.teams[i].ID,
				Team2ID:      f.teams[j].ID,
				ScheduledAt:  &at,
			})
		}
	}
	require.NoError(t, s.ReplaceMatches(ctx, f.tournament.ID, f.matches))
	return f
}

func intPtr(n int) *int { return &n }
