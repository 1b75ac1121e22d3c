package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/internal/domain/betting"
	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

// CreateCoupon stores a player's predictions for an active tournament.
// Any judgement sent by the client is discarded.
func (s *Service) CreateCoupon(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return model.Coupon{}, err
	}
	t, err := s.store.GetTournament(ctx, c.TournamentID)
	if err != nil {
		return model.Coupon{}, err
	}
	if !t.Active {
		return model.Coupon{}, ErrBettingClosed
	}
	if _, err := s.store.GetPlayer(ctx, c.PlayerID); err != nil {
		return model.Coupon{}, err
	}

	c.ID = ""
	c.Submitted = false
	c.TotalPoints = 0
	for i := range c.Predictions {
		c.Predictions[i].ID = ""
		c.Predictions[i].IsCorrect = nil
		c.Predictions[i].Points = 0
	}
	if err := s.store.CreateCoupon(ctx, &c); err != nil {
		return model.Coupon{}, err
	}
	s.logger.Debug(ctx, "coupon created",
		logger.String("coupon_id", c.ID),
		logger.String("tournament_id", c.TournamentID),
		logger.Int("predictions", len(c.Predictions)))
	return c, nil
}

// SubmitCoupon locks a coupon in while betting is open.
func (s *Service) SubmitCoupon(ctx context.Context, id string) (model.Coupon, error) {
	c, err := s.store.GetCoupon(ctx, id)
	if err != nil {
		return model.Coupon{}, err
	}
	if c.Submitted {
		return c, nil
	}
	t, err := s.store.GetTournament(ctx, c.TournamentID)
	if err != nil {
		return model.Coupon{}, err
	}
	if !t.Active {
		return model.Coupon{}, ErrBettingClosed
	}
	c.Submitted = true
	if err := s.store.UpdateCoupon(ctx, c); err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

func (s *Service) GetCoupon(ctx context.Context, id string) (model.Coupon, error) {
	return s.store.GetCoupon(ctx, id)
}

// ListCoupons returns a tournament's coupons in creation order.
func (s *Service) ListCoupons(ctx context.Context, tournamentID string) ([]model.Coupon, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.ListCoupons(ctx, tournamentID)
}

// ScoreCoupons judges every coupon of a completed tournament and mirrors the
// bettor leaderboard. It fails with an error matching model.ErrNotReady while
// matches are missing or unplayed.
func (s *Service) ScoreCoupons(ctx context.Context, tournamentID string) ([]model.Coupon, error) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s.derive.Lock()
	defer s.derive.Unlock()
	return s.scoreCoupons(ctx, t)
}

// scoreCoupons must be called with s.derive held.
func (s *Service) scoreCoupons(ctx context.Context, t model.Tournament) ([]model.Coupon, error) {
	matches, err := s.store.ListMatches(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	outcome, err := betting.NewOutcome(matches, nil, t.Seeding)
	if err != nil {
		return nil, err
	}
	coupons, err := s.store.ListCoupons(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	scored := make([]model.Coupon, len(coupons))
	for i, c := range coupons {
		next, err := s.scorer.ScoreCoupon(c, &outcome)
		if err != nil {
			return nil, fmt.Errorf("coupon %s: %w", c.ID, err)
		}
		if err := s.store.UpdateCoupon(ctx, next); err != nil {
			return nil, err
		}
		for _, p := range next.Predictions {
			metrics.RecordPredictionOutcome(string(p.Type), verdict(p))
		}
		scored[i] = next
	}

	metrics.RecordCouponsScored(len(scored))
	s.logger.Info(ctx, "coupons scored",
		logger.String("tournament_id", t.ID),
		logger.Int("coupons", len(scored)),
		logger.Float64("average_goals", outcome.AverageGoals))
	s.publishBoard(ctx, t.ID, scored)
	s.emit(ctx, kafka.CouponsScored, t.ID, map[string]int{"coupons": len(scored)})
	return scored, nil
}

// BettingLeaderboard ranks bettors by total points. limit <= 0 returns all.
func (s *Service) BettingLeaderboard(ctx context.Context, tournamentID string, limit int) ([]types.BettorEntry, error) {
	coupons, err := s.ListCoupons(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	entries, err := s.decorate(ctx, betting.Leaderboard(coupons))
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AdjudicatePrediction settles a surprise_player prediction by hand and
// updates the coupon total.
func (s *Service) AdjudicatePrediction(ctx context.Context, couponID, predictionID string, correct bool) (model.Coupon, error) {
	s.derive.Lock()
	defer s.derive.Unlock()

	c, err := s.store.GetCoupon(ctx, couponID)
	if err != nil {
		return model.Coupon{}, err
	}
	idx := -1
	for i := range c.Predictions {
		if c.Predictions[i].ID == predictionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Coupon{}, fmt.Errorf("prediction %s: %w", predictionID, model.ErrNotFound)
	}

	judged, err := s.scorer.Adjudicate(c.Predictions[idx], correct)
	if err != nil {
		return model.Coupon{}, err
	}
	c.Predictions[idx] = judged
	c.TotalPoints = c.Total()
	if err := s.store.UpdateCoupon(ctx, c); err != nil {
		return model.Coupon{}, err
	}
	metrics.RecordPredictionOutcome(string(judged.Type), verdict(judged))

	coupons, err := s.store.ListCoupons(ctx, c.TournamentID)
	if err != nil {
		return model.Coupon{}, err
	}
	s.publishBoard(ctx, c.TournamentID, coupons)
	return c, nil
}

// publishBoard mirrors the leaderboard. Failures are logged only.
func (s *Service) publishBoard(ctx context.Context, tournamentID string, coupons []model.Coupon) {
	entries, err := s.decorate(ctx, betting.Leaderboard(coupons))
	if err == nil {
		err = s.board.Publish(ctx, tournamentID, entries)
	}
	if err != nil {
		metrics.RecordErrorByComponent("service", "board_publish")
		s.logger.Warn(ctx, "board not published",
			logger.String("tournament_id", tournamentID),
			logger.Error(err))
	}
}

func (s *Service) decorate(ctx context.Context, entries []types.BettorEntry) ([]types.BettorEntry, error) {
	names, err := s.nicknames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Nickname = names[entries[i].PlayerID]
	}
	return entries, nil
}

func verdict(p model.Prediction) string {
	switch {
	case p.IsCorrect == nil:
		return "unjudged"
	case *p.IsCorrect:
		return "correct"
	default:
		return "incorrect"
	}
}
