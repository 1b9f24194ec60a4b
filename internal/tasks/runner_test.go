package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"catalogapi/internal/config"
)

func testTasksConfig() config.TasksConfig {
	return config.TasksConfig{
		Workers:         2,
		QueueSize:       8,
		TaskTimeoutSec:  5,
		DrainTimeoutSec: 5,
	}
}

func TestRunnerExecutesTasks(t *testing.T) {
	r, err := NewRunner(testTasksConfig(), time.UTC, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	r.Start()

	var ran int64
	for i := 0; i < 5; i++ {
		ok := r.Enqueue(Task{
			Name: "count",
			Run: func(ctx context.Context) error {
				atomic.AddInt64(&ran, 1)
				return nil
			},
		})
		if !ok {
			t.Fatalf("enqueue %d was rejected", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if got := atomic.LoadInt64(&ran); got != 5 {
		t.Errorf("expected 5 tasks to run, got %d", got)
	}
	if got := testutil.ToFloat64(r.enqueued); got != 5 {
		t.Errorf("expected enqueued counter 5, got %f", got)
	}
	if got := testutil.ToFloat64(r.completed); got != 5 {
		t.Errorf("expected completed counter 5, got %f", got)
	}
}

func TestRunnerDropsWhenQueueFull(t *testing.T) {
	cfg := testTasksConfig()
	cfg.Workers = 1
	cfg.QueueSize = 1

	r, err := NewRunner(cfg, time.UTC, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}

	running := make(chan struct{})
	release := make(chan struct{})

	// The single worker picks this up and blocks until released.
	if ok := r.Enqueue(Task{
		Name: "block",
		Run: func(ctx context.Context) error {
			close(running)
			<-release
			return nil
		},
	}); !ok {
		t.Fatal("first enqueue was rejected")
	}

	r.Start()
	select {
	case <-running:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the blocking task")
	}

	// Queue is empty again, so this one fills the single slot.
	if ok := r.Enqueue(Task{Name: "queued", Run: func(ctx context.Context) error { return nil }}); !ok {
		t.Fatal("second enqueue was rejected")
	}

	// Now the queue is full and the runner must refuse without blocking.
	if ok := r.Enqueue(Task{Name: "overflow", Run: func(ctx context.Context) error { return nil }}); ok {
		t.Error("expected enqueue to reject when queue is full")
	}
	if got := testutil.ToFloat64(r.dropped); got != 1 {
		t.Errorf("expected dropped counter 1, got %f", got)
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestRunnerRejectsAfterDrain(t *testing.T) {
	r, err := NewRunner(testTasksConfig(), time.UTC, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	r.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if ok := r.Enqueue(Task{Name: "late", Run: func(ctx context.Context) error { return nil }}); ok {
		t.Error("expected enqueue to reject after drain")
	}
	if got := testutil.ToFloat64(r.dropped); got != 1 {
		t.Errorf("expected dropped counter 1, got %f", got)
	}

	// Draining twice must be a harmless no-op.
	if err := r.Drain(ctx); err != nil {
		t.Errorf("second drain: %v", err)
	}
}

func TestRunnerRecoversFromPanic(t *testing.T) {
	r, err := NewRunner(testTasksConfig(), time.UTC, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	r.Start()

	r.Enqueue(Task{Name: "panic", Run: func(ctx context.Context) error { panic("boom") }})
	r.Enqueue(Task{Name: "fail", Run: func(ctx context.Context) error { return errors.New("nope") }})
	r.Enqueue(Task{Name: "ok", Run: func(ctx context.Context) error { return nil }})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if got := testutil.ToFloat64(r.failed); got != 2 {
		t.Errorf("expected failed counter 2, got %f", got)
	}
	if got := testutil.ToFloat64(r.completed); got != 1 {
		t.Errorf("expected completed counter 1, got %f", got)
	}
}

func TestRunnerTaskContextHasDeadline(t *testing.T) {
	r, err := NewRunner(testTasksConfig(), time.UTC, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	r.Start()

	hasDeadline := make(chan bool, 1)
	r.Enqueue(Task{
		Name: "deadline",
		Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			hasDeadline <- ok
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if !<-hasDeadline {
		t.Error("expected task context to carry a deadline")
	}
}

func TestRunnerDrainTimeout(t *testing.T) {
	cfg := testTasksConfig()
	cfg.Workers = 1

	r, err := NewRunner(cfg, time.UTC, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	r.Start()

	release := make(chan struct{})
	r.Enqueue(Task{
		Name: "stuck",
		Run: func(ctx context.Context) error {
			<-release
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := r.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	close(release)
}

func TestNewRunnerDefaults(t *testing.T) {
	r, err := NewRunner(config.TasksConfig{}, nil, nil)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}

	if r.workers != 1 {
		t.Errorf("expected 1 worker by default, got %d", r.workers)
	}
	if cap(r.queue) != 64 {
		t.Errorf("expected queue capacity 64 by default, got %d", cap(r.queue))
	}
	if r.timeout != 30*time.Second {
		t.Errorf("expected 30s task timeout by default, got %s", r.timeout)
	}
}

func TestNewRunnerRegistersCounters(t *testing.T) {
	// Use a fresh registry for each test to avoid "duplicate registration" panic
	reg := prometheus.NewRegistry()
	if _, err := NewRunner(testTasksConfig(), time.UTC, reg); err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}

	// Registering the same counters twice must surface the error.
	if _, err := NewRunner(testTasksConfig(), time.UTC, reg); err == nil {
		t.Error("expected duplicate registration error")
	}
}
