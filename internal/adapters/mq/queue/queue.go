// Package queue carries recompute jobs from the service to the workers.
//
// The in-memory implementation is a bounded channel. Identical pending jobs
// coalesce into one.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fcleague/internal/domain/dedupe"
	"github.com/okian/fcleague/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Kind names the work a job asks for.
type Kind string

// Job kinds.
const (
	// KindFinalize derives achievements, scores coupons and publishes results.
	KindFinalize Kind = "finalize"
	// KindRescore rescores coupons after results changed.
	KindRescore Kind = "rescore"
)

// Job is a unit of recompute work for one tournament.
type Job struct {
	ID           string
	Kind         Kind
	TournamentID string
	EnqueuedAt   time.Time
}

// Key identifies jobs that coalesce while pending.
func (j Job) Key() string { return dedupe.Key(string(j.Kind), j.TournamentID) }

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns false with a nil error when an identical
	// job is already pending.
	Enqueue(ctx context.Context, j Job) (bool, error)

	// Dequeue returns a channel of jobs. It is closed when the queue closes.
	Dequeue(ctx context.Context) <-chan Job

	Len(ctx context.Context) int

	// Close stops accepting jobs; queued jobs still drain.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	pending  dedupe.Deduper

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.pending == nil {
		q.pending = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) (bool, error) {
	if j.Kind == "" || j.TournamentID == "" {
		return false, ErrBadJob
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false, ErrClosed
	}

	key := j.Key()
	if q.pending.SeenAndRecord(ctx, key) {
		metrics.RecordJobCoalesced()
		return false, nil
	}

	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now()
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.jobs))
		return true, nil
	case <-ctx.Done():
		q.pending.Unrecord(ctx, key)
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false, ctx.Err()
	default:
		q.pending.Unrecord(ctx, key)
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false, fmt.Errorf("%w: %d pending", ErrFull, q.capacity)
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
// A job stops coalescing as soon as it is handed out, so a change made while
// it runs schedules a fresh job.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-q.jobs:
				if !ok {
					return
				}
				q.pending.Unrecord(ctx, j.Key())
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.jobs))
				select {
				case out <- j:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
