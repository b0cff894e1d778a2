package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/joseph-ayodele/ideascout/internal/common"
)

// TaskQueue runs each enqueued task on its own goroutine, with at most
// `workers` handlers executing at once. Enqueue never blocks.
type TaskQueue struct {
	handle  Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration

	sem    *semaphore.Weighted
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type Option func(*TaskQueue)

func WithWorkers(n int) Option {
	return func(q *TaskQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithProcessTimeout bounds a single task; d <= 0 keeps the default.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *TaskQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewTaskQueue(handle Handler, logger *slog.Logger, opts ...Option) *TaskQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &TaskQueue{
		handle:  handle,
		logger:  logger,
		workers: 4,
		timeout: 15 * time.Minute,
	}
	for _, o := range opts {
		o(q)
	}
	q.sem = semaphore.NewWeighted(int64(q.workers))
	q.base, q.cancel = context.WithCancel(context.Background())
	return q
}

func (q *TaskQueue) Enqueue(_ context.Context, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", task.JobID)
		return common.ErrQueueClosed
	}
	if task.SubmittedAt.IsZero() {
		task.SubmittedAt = time.Now()
	}
	q.wg.Add(1)
	go q.process(task)
	q.logger.Info("queued job for processing", "job_id", task.JobID)
	return nil
}

func (q *TaskQueue) process(task Task) {
	defer q.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task panicked", "job_id", task.JobID, "panic", fmt.Sprint(r))
		}
	}()

	// A failed acquire means forced shutdown; the handler still runs with a
	// cancelled context so the job is finalized.
	if err := q.sem.Acquire(q.base, 1); err == nil {
		defer q.sem.Release(1)
	} else {
		q.logger.Warn("task started without a worker slot", "job_id", task.JobID, "error", err)
	}

	ctx, cancel := context.WithTimeout(q.base, q.timeout)
	defer cancel()
	ctx = common.WithJobID(ctx, task.JobID)
	if task.TraceID != "" {
		ctx = common.WithRequestID(ctx, task.TraceID)
	}

	start := time.Now()
	q.logger.Info("processing job", "job_id", task.JobID, "queued_ms", start.Sub(task.SubmittedAt).Milliseconds())
	q.handle(ctx, task)
	q.logger.Info("job handler returned", "job_id", task.JobID, "elapsed_ms", time.Since(start).Milliseconds())
}

// Shutdown stops intake and waits for in-flight tasks. If ctx ends first,
// running tasks are cancelled and awaited, and ctx's error is returned.
func (q *TaskQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-done:
		q.cancel()
		q.logger.Info("queue drained, shutdown complete")
		return nil
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context, cancelling running jobs")
		q.cancel()
		<-done
		return ctx.Err()
	}
}

var _ Queue = (*TaskQueue)(nil)
