package service

import (
	"math/rand"
	"time"

	"github.com/okian/fcleague/internal/adapters/board"
	"github.com/okian/fcleague/internal/adapters/media"
	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/internal/adapters/repository"
	"github.com/okian/fcleague/internal/domain/betting"
	"github.com/okian/fcleague/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the record store. The default is an empty MemStore.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithBoard sets where bettor leaderboards are mirrored.
func WithBoard(b board.Publisher) Option {
	return func(s *Service) {
		if b != nil {
			s.board = b
		}
	}
}

// WithPublisher sets the domain event publisher.
func WithPublisher(p kafka.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithUploader sets the media store.
func WithUploader(u media.Uploader) Option {
	return func(s *Service) {
		if u != nil {
			s.media = u
		}
	}
}

// WithPointTable sets the prediction points.
func WithPointTable(p betting.PointTable) Option {
	return func(s *Service) {
		s.points = p
	}
}

// WithOverUnderThreshold sets the average-goals line for over/under bets.
func WithOverUnderThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithSurpriseMargin sets how many places a surprise player must beat their seed by.
func WithSurpriseMargin(margin int) Option {
	return func(s *Service) {
		if margin > 0 {
			s.surpriseMargin = margin
		}
	}
}

// WithScheduleInterval sets the time between generated fixtures.
func WithScheduleInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scheduleInterval = d
		}
	}
}

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the recompute queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the random source used for team draws.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}
