// Package schedule generates round-robin fixtures and team assignments.
package schedule

import (
	"math/rand"
	"time"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithStart sets the scheduled time of the first match.
func WithStart(start time.Time) Option {
	return func(g *Generator) {
		if !start.IsZero() {
			g.start = start
		}
	}
}

// WithInterval sets the time between consecutive matches.
func WithInterval(interval time.Duration) Option {
	return func(g *Generator) {
		if interval > 0 {
			g.interval = interval
		}
	}
}

// WithIDFunc sets the match id generator.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// WithRand sets the random source used for team assignment.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}
