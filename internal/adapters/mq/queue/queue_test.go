package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	ok, err := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: "t1"})
	if err != nil || !ok {
		t.Fatalf("expected enqueue to succeed, got %v %v", ok, err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	job := <-q.Dequeue(ctx)
	if job.TournamentID != "t1" || job.Kind != KindFinalize {
		t.Errorf("unexpected job %+v", job)
	}
	if job.ID == "" || job.EnqueuedAt.IsZero() {
		t.Errorf("expected id and enqueue time to be assigned, got %+v", job)
	}
}

func TestInMemoryQueue_RejectsIncompleteJobs(t *testing.T) {
	q := NewInMemoryQueue()
	if _, err := q.Enqueue(context.Background(), Job{Kind: KindRescore}); !errors.Is(err, ErrBadJob) {
		t.Errorf("expected ErrBadJob, got %v", err)
	}
}

func TestInMemoryQueue_Coalescing(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	first, _ := q.Enqueue(ctx, Job{Kind: KindRescore, TournamentID: "t1"})
	second, err := q.Enqueue(ctx, Job{Kind: KindRescore, TournamentID: "t1"})
	if !first || second || err != nil {
		t.Fatalf("expected second identical job to coalesce, got %v %v %v", first, second, err)
	}
	if ok, _ := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: "t1"}); !ok {
		t.Error("a different kind must not coalesce")
	}
	if l := q.Len(ctx); l != 2 {
		t.Fatalf("expected 2 pending jobs, got %d", l)
	}

	jobs := q.Dequeue(ctx)
	<-jobs

	// Handed out: the same key can be queued again.
	deadline := time.After(time.Second)
	for {
		ok, err := q.Enqueue(ctx, Job{Kind: KindRescore, TournamentID: "t1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("key was never released after dequeue")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"t1", "t2"} {
		if ok, err := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: id}); !ok || err != nil {
			t.Fatalf("expected enqueue of %s to succeed: %v", id, err)
		}
	}

	_, err := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: "t3"})
	if !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}

	// A rejected job is not left pending.
	_, err = q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: "t3"})
	if !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull again, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers, perProducer = 10, 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				tid := fmt.Sprintf("t%d-%d", id, j)
				if _, err := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: tid}); err != nil {
					t.Errorf("enqueue %s: %v", tid, err)
				}
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	jobs := q.Dequeue(ctx)
	for len(seen) < producers*perProducer {
		select {
		case j := <-jobs:
			seen[j.TournamentID] = true
		case <-time.After(time.Second):
			t.Fatalf("only consumed %d jobs", len(seen))
		}
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: "t1"}); err != nil {
		t.Fatal(err)
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if _, err := q.Enqueue(ctx, Job{Kind: KindFinalize, TournamentID: "t2"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Already queued work still drains, then the channel closes.
	jobs := q.Dequeue(ctx)
	drained := 0
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-jobs:
			if !ok {
				if drained != 1 {
					t.Errorf("expected 1 drained job, got %d", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
