// Package betting scores prediction coupons against a settled tournament.
package betting

import (
	"fmt"

	"github.com/okian/fcleague/internal/domain/model"
)

// Scorer judges predictions with a configurable point policy.
type Scorer struct {
	points         PointTable
	threshold      float64
	surpriseMargin int
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		points:         DefaultPointTable(),
		threshold:      DefaultOverUnderThreshold,
		surpriseMargin: DefaultSurpriseMargin,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Points returns the scorer's point table.
func (s *Scorer) Points() PointTable { return s.points }

// Threshold returns the goals_over_under line.
func (s *Scorer) Threshold() float64 { return s.threshold }

// ScorePrediction judges p against o and returns the judged copy.
//
// A surprise_player pick stays unjudged when the outcome has no seed for the
// player; it can be settled later with Adjudicate. An average exactly on the
// over/under line is a push: judged incorrect with no points.
func (s *Scorer) ScorePrediction(p model.Prediction, o *Outcome) model.Prediction {
	p.Points = 0
	switch p.Type {
	case model.PredictionGoalsOverUnder:
		var actual model.OverUnder
		switch {
		case o.AverageGoals > s.threshold:
			actual = model.Over
		case o.AverageGoals < s.threshold:
			actual = model.Under
		}
		s.judge(&p, actual != "" && p.Side == actual, 1)
	case model.PredictionFinalRanking:
		hits := 0
		for i, id := range p.Ranking {
			if i < len(o.Order) && o.Order[i] == id {
				hits++
			}
		}
		s.judge(&p, hits > 0, hits)
	case model.PredictionTopScorer:
		s.judge(&p, p.PlayerID == o.TopScorer, 1)
	case model.PredictionWorstDefense:
		s.judge(&p, p.PlayerID == o.WorstDefense, 1)
	case model.PredictionTournamentWinner:
		s.judge(&p, p.PlayerID == o.Winner, 1)
	case model.PredictionSurprisePlayer:
		seed, seeded := o.Seed[p.PlayerID]
		final, placed := o.Position[p.PlayerID]
		if !seeded || !placed {
			p.IsCorrect = nil
			return p
		}
		s.judge(&p, seed-final >= s.surpriseMargin, 1)
	}
	return p
}

// ScoreCoupon validates and judges every prediction of c and sets its total.
func (s *Scorer) ScoreCoupon(c model.Coupon, o *Outcome) (model.Coupon, error) {
	if err := c.Validate(); err != nil {
		return c, err
	}
	judged := make([]model.Prediction, len(c.Predictions))
	for i, p := range c.Predictions {
		// Manual rulings stand when the rule cannot decide.
		if p.Type == model.PredictionSurprisePlayer && p.Judged() {
			if next := s.ScorePrediction(p, o); next.Judged() {
				p = next
			}
			judged[i] = p
			continue
		}
		judged[i] = s.ScorePrediction(p, o)
	}
	c.Predictions = judged
	c.TotalPoints = c.Total()
	return c, nil
}

// Adjudicate settles a surprise_player prediction by hand.
func (s *Scorer) Adjudicate(p model.Prediction, correct bool) (model.Prediction, error) {
	if p.Type != model.PredictionSurprisePlayer {
		return p, fmt.Errorf("%w: got %s", ErrNotAdjudicable, p.Type)
	}
	s.judge(&p, correct, 1)
	return p, nil
}

func (s *Scorer) judge(p *model.Prediction, correct bool, units int) {
	p.IsCorrect = &correct
	p.Points = 0
	if correct {
		p.Points = s.points.For(p.Type) * units
	}
}
