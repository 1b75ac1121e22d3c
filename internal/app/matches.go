package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/internal/adapters/mq/queue"
	"github.com/okian/fcleague/internal/adapters/repository"
	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/schedule"
	"github.com/okian/fcleague/internal/domain/standings"
	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

// GenerateSchedule replaces a tournament's unplayed schedule with a fresh
// round robin. It refuses once any match has been played, including one
// recorded while the schedule was being drawn.
func (s *Service) GenerateSchedule(ctx context.Context, tournamentID string, req types.ScheduleRequest) ([]model.Match, error) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].IsCompleted() {
			return nil, ErrScheduleLocked
		}
	}
	if err := s.checkPlayers(ctx, req.Participants); err != nil {
		return nil, err
	}

	start := t.StartDate
	if start.IsZero() {
		start = s.now()
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	gen := schedule.New(
		schedule.WithStart(start),
		schedule.WithInterval(s.scheduleInterval),
		schedule.WithRand(s.rng),
	)

	teams := req.Teams
	if req.RandomTeams {
		pool, err := s.store.ListTeams(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(pool))
		for i, team := range pool {
			ids[i] = team.ID
		}
		if teams, err = gen.AssignTeams(req.Participants, ids); err != nil {
			return nil, err
		}
	} else {
		for _, teamID := range teams {
			if _, err := s.store.GetTeam(ctx, teamID); err != nil {
				return nil, err
			}
		}
	}

	matches, err := gen.Generate(tournamentID, req.Participants, teams)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceMatches(ctx, tournamentID, matches); err != nil {
		if errors.Is(err, repository.ErrSchedulePlayed) {
			return nil, ErrScheduleLocked
		}
		return nil, err
	}

	metrics.RecordScheduleGenerated(len(matches))
	s.logger.Info(ctx, "schedule generated",
		logger.String("tournament_id", tournamentID),
		logger.Int("participants", len(req.Participants)),
		logger.Int("matches", len(matches)))
	s.emit(ctx, kafka.ScheduleGenerated, tournamentID, map[string]int{"matches": len(matches)})
	return matches, nil
}

// ListMatches returns a tournament's matches in schedule order.
func (s *Service) ListMatches(ctx context.Context, tournamentID string) ([]model.Match, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.ListMatches(ctx, tournamentID)
}

func (s *Service) GetMatch(ctx context.Context, id string) (model.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// RecordResult stores a final score. A change to a finalized tournament
// queues a rescore.
func (s *Service) RecordResult(ctx context.Context, matchID string, score1, score2 int) (model.Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	if err := m.SetResult(score1, score2); err != nil {
		return model.Match{}, err
	}
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		return model.Match{}, err
	}

	metrics.RecordMatchRecorded()
	s.logger.Debug(ctx, "result recorded",
		logger.String("match_id", m.ID),
		logger.Int("score1", score1),
		logger.Int("score2", score2))
	s.emit(ctx, kafka.MatchRecorded, m.TournamentID, m)
	s.afterResultChange(ctx, m.TournamentID)
	return m, nil
}

// ClearResult returns a match to unplayed.
func (s *Service) ClearResult(ctx context.Context, matchID string) (model.Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	m.ClearResult()
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		return model.Match{}, err
	}
	s.emit(ctx, kafka.MatchRecorded, m.TournamentID, m)
	s.afterResultChange(ctx, m.TournamentID)
	return m, nil
}

func (s *Service) afterResultChange(ctx context.Context, tournamentID string) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil || t.Active {
		return
	}
	if _, err := s.EnqueueJob(ctx, queue.KindRescore, tournamentID); err != nil {
		s.logger.Warn(ctx, "rescore not queued",
			logger.String("tournament_id", tournamentID),
			logger.Error(err))
	}
}

// Standings computes the tournament table and decorates it with nicknames.
func (s *Service) Standings(ctx context.Context, tournamentID string) ([]types.StandingsEntry, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	rows, err := s.standingsRows(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	names, err := s.nicknames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.StandingsEntry, len(rows))
	for i, r := range rows {
		out[i] = types.StandingsEntry{StandingsRow: r, Nickname: names[r.PlayerID]}
	}
	return out, nil
}

func (s *Service) standingsRows(ctx context.Context, tournamentID string) ([]model.StandingsRow, error) {
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows := standings.Compute(matches)
	metrics.RecordStandingsComputed(float64(time.Since(start).Microseconds()) / 1000)
	return rows, nil
}

// PlayerHistory returns a player's row in every tournament they played,
// their career totals and their achievements.
func (s *Service) PlayerHistory(ctx context.Context, playerID string) (types.PlayerHistory, error) {
	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return types.PlayerHistory{}, err
	}
	played, err := s.store.ListMatchesByPlayer(ctx, playerID)
	if err != nil {
		return types.PlayerHistory{}, err
	}

	var order []string
	seen := make(map[string]struct{})
	for _, m := range played {
		if _, ok := seen[m.TournamentID]; !ok {
			seen[m.TournamentID] = struct{}{}
			order = append(order, m.TournamentID)
		}
	}

	lines := make([]types.TournamentLine, len(order))
	tables := make([][]model.StandingsRow, len(order))
	var achievements []model.Achievement

	g, gctx := errgroup.WithContext(ctx)
	for i, tid := range order {
		g.Go(func() error {
			t, err := s.store.GetTournament(gctx, tid)
			if err != nil {
				return err
			}
			rows, err := s.standingsRows(gctx, tid)
			if err != nil {
				return err
			}
			row, _ := standings.Lookup(rows, playerID)
			tables[i] = rows
			lines[i] = types.TournamentLine{TournamentID: tid, TournamentName: t.Name, Row: row}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		achievements, err = s.store.ListAchievementsByPlayer(gctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.PlayerHistory{}, err
	}
	if achievements == nil {
		achievements = []model.Achievement{}
	}

	return types.PlayerHistory{
		Player:       p,
		Tournaments:  lines,
		Achievements: achievements,
		Totals:       standings.Merge(playerID, tables...),
	}, nil
}
