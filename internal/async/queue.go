package async

import (
	"context"
	"time"
)

// Task is the smallest useful unit: one dispatched job.
type Task struct {
	JobID       string
	TraceID     string // request id of the submitting call, if any
	SubmittedAt time.Time
}

// Handler runs a task to completion. ctx carries the queue's process timeout
// and is cancelled on forced shutdown.
type Handler func(ctx context.Context, task Task)

type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Shutdown(ctx context.Context) error
}
