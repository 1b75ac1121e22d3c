package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/internal/adapters/mq/queue"
	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

// FinalizeTournament closes a tournament: betting stops, achievements are
// derived from the final standings and coupons are scored when every match
// is played. Finalizing again recomputes the same results.
func (s *Service) FinalizeTournament(ctx context.Context, tournamentID string) ([]model.Achievement, error) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.closeTournament(ctx, t)
}

// closeTournament deactivates t and finalizes it.
func (s *Service) closeTournament(ctx context.Context, t model.Tournament) ([]model.Achievement, error) {
	if t.Active {
		t.Active = false
		if err := s.store.UpdateTournament(ctx, t); err != nil {
			return nil, err
		}
	}

	set, err := s.finalize(ctx, t)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, kafka.TournamentFinalized, t.ID, map[string]int{"achievements": len(set)})
	return set, nil
}

// finalize derives and replaces achievements, then scores coupons if the
// tournament is complete.
func (s *Service) finalize(ctx context.Context, t model.Tournament) ([]model.Achievement, error) {
	s.derive.Lock()
	defer s.derive.Unlock()

	rows, err := s.standingsRows(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	at, err := s.awardDate(ctx, t)
	if err != nil {
		return nil, err
	}
	set := s.deriver.Derive(t.ID, t.Name, at, rows)
	if err := s.store.ReplaceAchievements(ctx, t.ID, set); err != nil {
		return nil, fmt.Errorf("replace achievements: %w", err)
	}
	metrics.RecordAchievementsDerived(len(set))
	s.logger.Info(ctx, "tournament finalized",
		logger.String("tournament_id", t.ID),
		logger.Int("achievements", len(set)))

	if _, err := s.scoreCoupons(ctx, t); err != nil && !errors.Is(err, model.ErrNotReady) {
		return nil, err
	}
	return set, nil
}

// awardDate dates a tournament's awards: its end date, else the date of the
// awards already stored, else now.
func (s *Service) awardDate(ctx context.Context, t model.Tournament) (time.Time, error) {
	if t.EndDate != nil {
		return *t.EndDate, nil
	}
	prev, err := s.store.ListAchievements(ctx, t.ID)
	if err != nil {
		return time.Time{}, err
	}
	if len(prev) > 0 {
		return prev[0].CreatedAt, nil
	}
	return s.now(), nil
}

// Achievements lists a tournament's awards.
func (s *Service) Achievements(ctx context.Context, tournamentID string) ([]model.Achievement, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.ListAchievements(ctx, tournamentID)
}

// EnqueueJob schedules recompute work. Before Start the job runs inline.
// It returns false when an identical job is already pending.
func (s *Service) EnqueueJob(ctx context.Context, kind queue.Kind, tournamentID string) (bool, error) {
	job := queue.Job{
		ID:           uuid.NewString(),
		Kind:         kind,
		TournamentID: tournamentID,
		EnqueuedAt:   s.now(),
	}

	s.mu.RLock()
	started, q := s.started, s.jobQueue
	s.mu.RUnlock()
	if !started {
		return true, s.RunJob(ctx, job)
	}

	queued, err := q.Enqueue(ctx, job)
	if err != nil {
		return false, fmt.Errorf("enqueue %s job: %w", kind, err)
	}
	return queued, nil
}

// RunJob executes a recompute job. It is the worker pool's handler.
func (s *Service) RunJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	t, err := s.store.GetTournament(ctx, job.TournamentID)
	if err != nil {
		return err
	}

	switch job.Kind {
	case queue.KindFinalize:
		if _, err := s.closeTournament(ctx, t); err != nil {
			return err
		}
	case queue.KindRescore:
		if _, err := s.finalize(ctx, t); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", queue.ErrBadJob, job.Kind)
	}

	s.logger.Debug(ctx, "job finished",
		logger.String("kind", string(job.Kind)),
		logger.String("tournament_id", job.TournamentID),
		logger.Any("took", time.Since(start)))
	return nil
}

// Reconcile queues finalization for active tournaments whose end date has
// passed and whose matches are all played. The tournament stays active until
// its job runs, so a job lost to a crash is queued again on the next pass.
// It returns how many it queued.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	list, err := s.store.ListTournaments(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	closed := 0
	for _, t := range list {
		if !t.Active || t.EndDate == nil || t.EndDate.After(now) {
			continue
		}
		matches, err := s.store.ListMatches(ctx, t.ID)
		if err != nil {
			return closed, err
		}
		if !allCompleted(matches) {
			continue
		}

		queued, err := s.EnqueueJob(ctx, queue.KindFinalize, t.ID)
		if err != nil {
			return closed, err
		}
		if queued {
			closed++
		}
	}
	return closed, nil
}

func allCompleted(matches []model.Match) bool {
	if len(matches) == 0 {
		return false
	}
	for i := range matches {
		if !matches[i].IsCompleted() {
			return false
		}
	}
	return true
}
