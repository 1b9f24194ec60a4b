// Package tasks executes fire-and-forget background work on a bounded
// worker pool, so request handlers never wait on slow side effects.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"catalogapi/internal/config"
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner feeds a fixed pool of workers from a bounded queue. Enqueue never
// blocks: when the queue is full the task is dropped and counted instead.
type Runner struct {
	queue   chan Task
	workers int
	timeout time.Duration
	loc     *time.Location

	wg sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool

	enqueued  prometheus.Counter
	dropped   prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
}

// NewRunner creates a Runner sized by cfg and registers its counters on reg.
// A nil reg skips registration, which tests use to avoid duplicate collectors.
func NewRunner(cfg config.TasksConfig, loc *time.Location, reg prometheus.Registerer) (*Runner, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 64
	}
	timeout := time.Duration(cfg.TaskTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if loc == nil {
		loc = time.UTC
	}

	r := &Runner{
		queue:   make(chan Task, queueSize),
		workers: workers,
		timeout: timeout,
		loc:     loc,
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_enqueued_total",
			Help: "Total number of background tasks accepted onto the queue.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_dropped_total",
			Help: "Total number of background tasks rejected because the queue was full or closed.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total number of background tasks that finished without error.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_failed_total",
			Help: "Total number of background tasks that returned an error or panicked.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Counter{r.enqueued, r.dropped, r.completed, r.failed} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// Start launches the worker goroutines. Calling Start twice is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	logJSON(r.loc, map[string]any{
		"component":  "tasks",
		"event":      "runner_started",
		"status":     "success",
		"workers":    r.workers,
		"queue_size": cap(r.queue),
	})
}

// Enqueue offers a task to the queue and reports whether it was accepted.
// It returns false when the queue is full or the runner is draining.
func (r *Runner) Enqueue(t Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.drop(t, "runner closed")
		return false
	}

	select {
	case r.queue <- t:
		r.enqueued.Inc()
		return true
	default:
		r.drop(t, "queue full")
		return false
	}
}

func (r *Runner) drop(t Task, reason string) {
	r.dropped.Inc()
	logJSON(r.loc, map[string]any{
		"component":     "tasks",
		"event":         "task_dropped",
		"status":        "error",
		"task":          t.Name,
		"error_message": reason,
	})
}

// Drain stops accepting tasks and waits for queued work to finish. It returns
// the context error if the deadline passes before the workers go idle.
func (r *Runner) Drain(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	started := r.started
	r.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logJSON(r.loc, map[string]any{
			"component": "tasks",
			"event":     "runner_drained",
			"status":    "success",
		})
		return nil
	case <-ctx.Done():
		logJSON(r.loc, map[string]any{
			"component":     "tasks",
			"event":         "runner_drain_timeout",
			"status":        "error",
			"error_message": ctx.Err().Error(),
		})
		return ctx.Err()
	}
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()
	for t := range r.queue {
		r.execute(id, t)
	}
}

func (r *Runner) execute(id int, t Task) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := runTask(ctx, t)
	if err != nil {
		r.failed.Inc()
		logJSON(r.loc, map[string]any{
			"component":     "tasks",
			"event":         "task_failed",
			"status":        "error",
			"task":          t.Name,
			"worker":        id,
			"error_message": err.Error(),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return
	}

	r.completed.Inc()
	logJSON(r.loc, map[string]any{
		"component":   "tasks",
		"event":       "task_completed",
		"status":      "success",
		"task":        t.Name,
		"worker":      id,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

// runTask converts a panic inside a task into an error so one bad task
// cannot take down its worker.
func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	return t.Run(ctx)
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal tasks log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
