// Package betting scores prediction coupons against a settled tournament.
package betting

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPointTable sets the points per prediction type.
func WithPointTable(p PointTable) Option {
	return func(s *Scorer) {
		if p.Validate() == nil {
			s.points = p
		}
	}
}

// WithOverUnderThreshold sets the average goals line for goals_over_under.
func WithOverUnderThreshold(threshold float64) Option {
	return func(s *Scorer) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithSurpriseMargin sets how many places above their seed a surprise player must finish.
func WithSurpriseMargin(margin int) Option {
	return func(s *Scorer) {
		if margin > 0 {
			s.surpriseMargin = margin
		}
	}
}
