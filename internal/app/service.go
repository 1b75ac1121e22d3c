// Package service implements the league operations the HTTP API exposes.
//
// It loads records through the repository, runs the pure domain engines over
// them and persists the derived results. Work triggered by late result
// changes runs on a background worker pool.
package service

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fcleague/internal/adapters/board"
	"github.com/okian/fcleague/internal/adapters/media"
	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/internal/adapters/mq/queue"
	"github.com/okian/fcleague/internal/adapters/mq/worker"
	"github.com/okian/fcleague/internal/adapters/repository"
	"github.com/okian/fcleague/internal/domain/achievement"
	"github.com/okian/fcleague/internal/domain/betting"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

const (
	defaultQueueSize        = 1024
	defaultScheduleInterval = time.Hour
	stopTimeout             = 10 * time.Second
)

// Service implements the API dependencies for the league.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	store  repository.Store
	board  board.Publisher
	events kafka.Publisher
	media  media.Uploader

	// Engines
	scorer   *betting.Scorer
	deriver  *achievement.Deriver
	jobQueue *queue.InMemoryQueue
	pool     *worker.Pool
	halt     context.CancelFunc

	// Configuration
	points           betting.PointTable
	threshold        float64
	surpriseMargin   int
	scheduleInterval time.Duration
	workerCount      int
	queueSize        int
	now              func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	// derive serializes writes of derived data (achievements and coupon scores).
	derive sync.Mutex

	started bool
	logger  logger.Logger
}

// New constructs a Service. Unset collaborators fall back to an in-memory
// store and disabled board, events and media.
func New(opts ...Option) *Service {
	s := &Service{
		board:            board.Noop{},
		events:           kafka.Noop{},
		media:            media.Disabled{},
		points:           betting.DefaultPointTable(),
		threshold:        betting.DefaultOverUnderThreshold,
		surpriseMargin:   betting.DefaultSurpriseMargin,
		scheduleInterval: defaultScheduleInterval,
		workerCount:      runtime.NumCPU(),
		queueSize:        defaultQueueSize,
		now:              func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano())) //nolint:gosec // team draw, not security sensitive
	}
	s.scorer = betting.New(
		betting.WithPointTable(s.points),
		betting.WithOverUnderThreshold(s.threshold),
		betting.WithSurpriseMargin(s.surpriseMargin),
	)
	s.deriver = achievement.New()
	return s
}

// Start starts the recompute workers. Until then jobs run inline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting league service...")

	// Workers outlive ctx so Stop can drain what is queued.
	workCtx, halt := context.WithCancel(context.WithoutCancel(ctx))
	s.halt = halt
	s.jobQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobQueue, worker.HandlerFunc(s.RunJob))
	s.pool.Start(workCtx)

	s.started = true
	s.logger.Info(ctx, "league service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
	)
	return nil
}

// Stop drains the queue and waits for the workers. Jobs still running when
// the stop timeout passes are abandoned.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping league service...")

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	err := s.pool.Shutdown(stopCtx)
	s.halt()

	s.started = false
	s.logger.Info(ctx, "league service stopped")
	return err
}

// PointTable returns the active prediction points.
func (s *Service) PointTable() betting.PointTable { return s.scorer.Points() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	started := s.started
	stats := map[string]any{
		"started":     started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if started {
		queueLen := s.jobQueue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	s.mu.RUnlock()

	var players, teams, tournaments, active int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.store.ListPlayers(gctx)
		players = len(list)
		return err
	})
	g.Go(func() error {
		list, err := s.store.ListTeams(gctx)
		teams = len(list)
		return err
	})
	g.Go(func() error {
		list, err := s.store.ListTournaments(gctx)
		tournaments = len(list)
		for _, t := range list {
			if t.Active {
				active++
			}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats["players"] = players
	stats["teams"] = teams
	stats["tournaments"] = tournaments
	stats["activeTournaments"] = active
	return stats, nil
}

// emit publishes an event. Failures are logged; the event stream is best effort.
func (s *Service) emit(ctx context.Context, t kafka.EventType, tournamentID string, payload any) {
	err := s.events.Publish(ctx, kafka.Event{
		Type:         t,
		TournamentID: tournamentID,
		OccurredAt:   s.now(),
		Payload:      payload,
	})
	if err != nil {
		metrics.RecordErrorByComponent("service", "event_publish")
		s.logger.Warn(ctx, "event not published",
			logger.String("type", string(t)),
			logger.String("tournament_id", tournamentID),
			logger.Error(err))
	}
}

// nicknames maps player ids to nicknames.
func (s *Service) nicknames(ctx context.Context) (map[string]string, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(players))
	for _, p := range players {
		out[p.ID] = p.Nickname
	}
	return out, nil
}
