package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/tailorcraft/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

type reminderJob struct {
	TailorID string
	called   *atomic.Int32
}

func (j *reminderJob) Handle() error {
	if j.called != nil {
		j.called.Add(1)
	}
	return nil
}

type failJob struct {
	attempts *atomic.Int32
}

func (j *failJob) Handle() error {
	if j.attempts != nil {
		j.attempts.Add(1)
	}
	return errors.New("always fails")
}

func init() {
	// Start workers so jobs actually get processed in tests.
	ctx, cancel := context.WithCancel(context.Background())
	_ = cancel
	queue.StartWorkers(ctx, 2)

	queue.Register("*queue_test.reminderJob", func() queue.Job { return &reminderJob{called: &atomic.Int32{}} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{attempts: &atomic.Int32{}} })
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchAndProcess(t *testing.T) {
	if err := queue.Dispatch(&reminderJob{TailorID: "t1", called: &atomic.Int32{}}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
}

func TestFailedJobRetry(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&failJob{attempts: &atomic.Int32{}}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	// 1 attempt + 1s backoff + slack.
	time.Sleep(2500 * time.Millisecond)

	if len(queue.FailedJobs()) == 0 {
		t.Error("expected at least one failed job")
	}
}

// delayedStub records PushDelayed calls. Pop yields so the workers keep
// cycling and pick the next driver back up after the test restores it.
type delayedStub struct {
	mu      sync.Mutex
	parked  [][]byte
	delays  []time.Duration
	pushErr error
}

func (s *delayedStub) Push([]byte) error { return nil }

func (s *delayedStub) Pop(ctx context.Context) ([]byte, error) {
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

func (s *delayedStub) PushDelayed(payload []byte, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return s.pushErr
	}
	s.parked = append(s.parked, payload)
	s.delays = append(s.delays, delay)
	return nil
}

func TestDispatchAfterParksOnDelayedDriver(t *testing.T) {
	stub := &delayedStub{}
	queue.SetDriver(stub)
	defer queue.SetDriver(queue.NewMemoryDriver())

	queue.DispatchAfter(&reminderJob{TailorID: "t2"}, time.Minute)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.parked) != 1 {
		t.Fatalf("expected 1 parked job, got %d", len(stub.parked))
	}
	if stub.delays[0] != time.Minute {
		t.Errorf("expected delay of 1m, got %v", stub.delays[0])
	}
}

func TestDispatchAfterFallsBackWhenParkFails(t *testing.T) {
	stub := &delayedStub{pushErr: errors.New("redis down")}
	queue.SetDriver(stub)
	defer queue.SetDriver(queue.NewMemoryDriver())

	// Must not panic or park; the in-memory fallback fires after the delay.
	queue.DispatchAfter(&reminderJob{TailorID: "t3"}, 50*time.Millisecond)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.parked) != 0 {
		t.Errorf("expected no parked jobs, got %d", len(stub.parked))
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&reminderJob{TailorID: "c", called: &atomic.Int32{}}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
