package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/joseph-ayodele/ideascout/internal/async"
	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/repository"
)

// Runner executes the research pipeline; *pipeline.Processor satisfies it.
type Runner interface {
	Run(ctx context.Context, input entity.JobInput, progress func(int)) (entity.Report, error)
}

// Manager owns the job lifecycle: it creates records, dispatches them to the
// async queue, and applies every state change through the repository's
// atomic update.
type Manager struct {
	repo   repository.JobRepository
	runner Runner
	queue  async.Queue
	log    *slog.Logger
}

func NewManager(repo repository.JobRepository, runner Runner, logger *slog.Logger, opts ...async.Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{repo: repo, runner: runner, log: logger}
	m.queue = async.NewTaskQueue(m.run, logger, opts...)
	return m
}

// Submit validates input, applies defaults, creates a waiting job and
// dispatches it. The returned id is valid even if dispatch later fails.
func (m *Manager) Submit(ctx context.Context, input entity.JobInput) (string, error) {
	input = input.WithDefaults()
	if err := common.ValidateJobInput(input); err != nil {
		return "", err
	}
	id, err := m.Create(ctx, input)
	if err != nil {
		return "", err
	}
	m.Dispatch(ctx, id)
	return id, nil
}

// Create stores a new waiting job with progress 0.
func (m *Manager) Create(ctx context.Context, input entity.JobInput) (string, error) {
	job := entity.NewJob(input)
	if err := m.repo.Create(ctx, job); err != nil {
		m.log.Error("jobs.create.failed", "job_id", job.ID, "error", err)
		return "", fmt.Errorf("create job: %w", err)
	}
	m.log.Info("jobs.created", "job_id", job.ID, "keyword", input.Keyword)
	return job.ID, nil
}

// Dispatch starts a waiting job in the background and returns immediately.
// Unknown ids and jobs that are not waiting are ignored, so repeated
// dispatches run the pipeline at most once.
func (m *Manager) Dispatch(ctx context.Context, id string) {
	if _, err := m.repo.Update(ctx, id, (*entity.Job).Start); err != nil {
		m.log.Info("jobs.dispatch.skipped", "job_id", id, "reason", err.Error())
		return
	}
	task := async.Task{JobID: id, TraceID: common.RequestIDFromContext(ctx), SubmittedAt: time.Now()}
	if err := m.queue.Enqueue(ctx, task); err != nil {
		m.log.Error("jobs.dispatch.enqueue_failed", "job_id", id, "error", err)
		_ = m.Fail(context.WithoutCancel(ctx), id, err.Error())
	}
}

// Status returns a snapshot of the job, or common.ErrNotFound.
func (m *Manager) Status(ctx context.Context, id string) (entity.JobStatusView, error) {
	job, err := m.repo.Get(ctx, id)
	if err != nil {
		return entity.JobStatusView{}, err
	}
	return job.View(), nil
}

// Job returns the full record, or common.ErrNotFound.
func (m *Manager) Job(ctx context.Context, id string) (*entity.Job, error) {
	return m.repo.Get(ctx, id)
}

// Recent lists up to limit jobs, newest first.
func (m *Manager) Recent(ctx context.Context, limit int) ([]entity.JobStatusView, error) {
	list, err := m.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]entity.JobStatusView, 0, len(list))
	for _, j := range list {
		out = append(out, j.View())
	}
	return out, nil
}

// UpdateProgress records progress for a processing job. Values are clamped
// and never decrease; updates on other states are ignored.
func (m *Manager) UpdateProgress(ctx context.Context, id string, progress int) error {
	_, err := m.repo.Update(ctx, id, func(j *entity.Job) error { return j.SetProgress(progress) })
	if err != nil {
		m.log.Debug("jobs.progress.rejected", "job_id", id, "progress", progress, "reason", err.Error())
	}
	return err
}

// Complete stores the report and marks the job completed.
func (m *Manager) Complete(ctx context.Context, id string, report entity.Report) error {
	_, err := m.repo.Update(ctx, id, func(j *entity.Job) error { return j.Complete(report) })
	if err != nil {
		m.log.Warn("jobs.complete.rejected", "job_id", id, "reason", err.Error())
		return err
	}
	m.log.Info("jobs.completed", "job_id", id, "empty_report", report.IsEmpty())
	return nil
}

// Fail marks the job failed with msg (or a generic message when blank).
func (m *Manager) Fail(ctx context.Context, id string, msg string) error {
	_, err := m.repo.Update(ctx, id, func(j *entity.Job) error { return j.Fail(msg) })
	if err != nil {
		m.log.Warn("jobs.fail.rejected", "job_id", id, "reason", err.Error())
		return err
	}
	m.log.Warn("jobs.failed", "job_id", id, "error", msg)
	return nil
}

// Shutdown stops accepting dispatches and waits for running jobs.
func (m *Manager) Shutdown(ctx context.Context) error {
	return m.queue.Shutdown(ctx)
}

// run is the queue handler. Whatever happens, the job ends terminal.
func (m *Manager) run(ctx context.Context, task async.Task) {
	id := task.JobID
	// Terminal writes must land even when ctx has expired.
	final := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("jobs.run.panic", "job_id", id, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			_ = m.Fail(final, id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	job, err := m.repo.Get(final, id)
	if err != nil {
		m.log.Error("jobs.run.load_failed", "job_id", id, "error", err)
		return
	}

	report, err := m.runner.Run(ctx, job.Input, func(p int) {
		_ = m.UpdateProgress(final, id, p)
	})
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "research timed out: " + msg
		}
		_ = m.Fail(final, id, msg)
		return
	}
	_ = m.Complete(final, id, report)
}
