package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ideascout/constants"
)

// ErrInvalidTransition is returned when a lifecycle change is not allowed
// from the job's current status.
var ErrInvalidTransition = errors.New("invalid job transition")

// JobInput is what a caller submits for research.
type JobInput struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
	Budget   string `json:"budget"`
}

// WithDefaults trims every field and fills blank location/budget.
func (in JobInput) WithDefaults() JobInput {
	out := JobInput{
		Keyword:  strings.TrimSpace(in.Keyword),
		Location: strings.TrimSpace(in.Location),
		Budget:   strings.TrimSpace(in.Budget),
	}
	if out.Location == "" {
		out.Location = constants.DefaultLocation
	}
	if out.Budget == "" {
		out.Budget = constants.DefaultBudget
	}
	return out
}

// Job is one research request's lifecycle record. It is mutated only through
// its transition methods, which the repository applies atomically.
type Job struct {
	ID          string              `json:"id"`
	Input       JobInput            `json:"input"`
	Status      constants.JobStatus `json:"status"`
	Progress    int                 `json:"progress"`
	Result      *Report             `json:"result"`
	Error       *string             `json:"error"`
	CreatedAt   time.Time           `json:"created_at"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// NewJobID returns an opaque, unique job identifier.
func NewJobID() string {
	return "job-" + uuid.NewString()
}

// NewJob builds a waiting job for input.
func NewJob(input JobInput) *Job {
	return &Job{
		ID:        NewJobID(),
		Input:     input,
		Status:    constants.JobStatusWaiting,
		Progress:  0,
		CreatedAt: time.Now().UTC(),
	}
}

// Start moves a waiting job into processing. It is the only entry point into
// processing, so a second Start on the same job always fails.
func (j *Job) Start() error {
	if j.Status != constants.JobStatusWaiting {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, j.Status)
	}
	now := time.Now().UTC()
	j.Status = constants.JobStatusProcessing
	j.StartedAt = &now
	return nil
}

// SetProgress records pipeline progress. Values are clamped to [0,100] and
// never move backwards. While processing the value stays below 100; only
// Complete reaches 100.
func (j *Job) SetProgress(p int) error {
	if j.Status != constants.JobStatusProcessing {
		return fmt.Errorf("%w: progress while %s", ErrInvalidTransition, j.Status)
	}
	p = min(max(p, 0), constants.ProgressDone-1)
	if p > j.Progress {
		j.Progress = p
	}
	return nil
}

// Complete stores the report and finishes the job.
func (j *Job) Complete(r Report) error {
	if j.Status != constants.JobStatusProcessing {
		return fmt.Errorf("%w: complete from %s", ErrInvalidTransition, j.Status)
	}
	now := time.Now().UTC()
	r = r.Normalized()
	j.Result = &r
	j.Error = nil
	j.Status = constants.JobStatusCompleted
	j.Progress = constants.ProgressDone
	j.CompletedAt = &now
	return nil
}

// Fail records msg and finishes the job. A blank msg is replaced with a
// generic message so failed jobs always carry an error.
func (j *Job) Fail(msg string) error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, j.Status)
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = constants.UnknownJobError
	}
	now := time.Now().UTC()
	j.Error = &msg
	j.Result = nil
	j.Status = constants.JobStatusFailed
	j.CompletedAt = &now
	return nil
}

// Clone returns a deep copy safe to hand out of a repository.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	out := *j
	if j.Result != nil {
		r := j.Result.Normalized()
		out.Result = &r
	}
	if j.Error != nil {
		e := *j.Error
		out.Error = &e
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		out.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// JobStatusView is the polling contract returned to callers.
type JobStatusView struct {
	JobID    string              `json:"jobId"`
	Status   constants.JobStatus `json:"status"`
	Progress int                 `json:"progress"`
	Input    JobInput            `json:"data"`
	Result   *Report             `json:"result"`
	Error    *string             `json:"error"`
}

// View snapshots the job for callers.
func (j *Job) View() JobStatusView {
	c := j.Clone()
	return JobStatusView{
		JobID:    c.ID,
		Status:   c.Status,
		Progress: c.Progress,
		Input:    c.Input,
		Result:   c.Result,
		Error:    c.Error,
	}
}
