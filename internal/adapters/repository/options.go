package repository

import (
	"time"

	"github.com/google/uuid"
)

type settings struct {
	newID func() string
	now   func() time.Time
}

func defaultSettings() settings {
	return settings{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithIDFunc sets the generator used for records created without an ID.
func WithIDFunc(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func (s settings) stamp(id *string, created *time.Time) {
	if *id == "" {
		*id = s.newID()
	}
	if created.IsZero() {
		*created = s.now()
	}
}
