// Package worker runs recompute jobs off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/fcleague/internal/adapters/mq/queue"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Handler executes a job. The application service implements it.
type Handler interface {
	RunJob(ctx context.Context, job queue.Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job queue.Job) error

// RunJob calls f.
func (f HandlerFunc) RunJob(ctx context.Context, job queue.Job) error { return f(ctx, job) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run handles jobs until the queue closes or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown closes the queue and waits for the worker to drain it.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for in-process jobs.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string
	active  *atomic.Int64

	done chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, h Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:   q,
		handler: h,
		name:    "worker",
		active:  new(atomic.Int64),
		done:    make(chan struct{}),
		logger:  logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. Jobs already queued when the queue closes are
// still handled; only ctx cancellation abandons them.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "job failed",
					logger.String("job_id", job.ID),
					logger.String("kind", string(job.Kind)),
					logger.String("tournament_id", job.TournamentID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown closes the queue and waits until the worker has drained it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	closeQueue(ctx, w.queue, w.logger)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(string(job.Kind), float64(time.Since(start).Milliseconds()))
	}()

	if err := w.handler.RunJob(ctx, job); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", string(job.Kind))
		return fmt.Errorf("%s %s: %w", job.Kind, job.TournamentID, err)
	}
	w.logger.Debug(ctx, "job done",
		logger.String("job_id", job.ID),
		logger.String("kind", string(job.Kind)),
		logger.Int("waited_ms", int(start.Sub(job.EnqueuedAt).Milliseconds())),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. A count below 1 means one worker per CPU.
func NewPool(workerCount int, q Queue, h Handler) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	active := new(atomic.Int64)
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(q, h,
			WithName("worker-"+strconv.Itoa(i)),
			withActiveCounter(active),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	closeQueue(ctx, p.queue, p.logger)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}

func closeQueue(ctx context.Context, q Queue, log logger.Logger) {
	closer, ok := q.(interface{ Close() error })
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Error(ctx, "error closing queue", logger.Error(err))
	}
}
