// Package scheduler runs the periodic reconcile job that closes tournaments
// whose end date has passed.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

const defaultRunTimeout = time.Minute

// Reconciler finalizes overdue tournaments and reports how many it closed.
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Scheduler wraps a seconds-precision cron.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	reconciler Reconciler
	timeout    time.Duration
	log        logger.Logger

	mu      sync.Mutex
	started bool
}

// New creates a scheduler that calls r on spec, a six-field cron expression.
func New(spec string, r Reconciler, opts ...Option) *Scheduler {
	s := &Scheduler{
		spec:       spec,
		reconciler: r,
		timeout:    defaultRunTimeout,
		log:        logger.Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	cl := cronLogger{log: s.log}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return s
}

// Start registers the job and starts the cron.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrStarted
	}
	if _, err := s.cron.AddFunc(s.spec, s.RunNow); err != nil {
		return fmt.Errorf("%w %q: %v", ErrBadSpec, s.spec, err)
	}
	s.cron.Start()
	s.started = true
	s.log.Info(context.Background(), "scheduler started", logger.String("spec", s.spec))
	return nil
}

// Stop stops the cron and waits for a running job up to ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()
	if !started {
		return nil
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info(ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow runs the reconcile job once.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	finalized, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("scheduler", "reconcile")
		s.log.Error(ctx, "reconcile failed", logger.Error(err))
		return
	}
	metrics.RecordReconcileRun(finalized)
	if finalized > 0 {
		s.log.Info(ctx, "reconcile finalized tournaments", logger.Int("count", finalized))
	}
}

// cronLogger adapts the league logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug(context.Background(), msg, fields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(context.Background(), msg, append(fields(keysAndValues), logger.Error(err))...)
}

func fields(kv []any) []logger.Field {
	out := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
