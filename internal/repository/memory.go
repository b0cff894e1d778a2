package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

type memoryJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.Job
	log  *slog.Logger
}

func NewMemoryJobRepository(log *slog.Logger) JobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &memoryJobRepo{jobs: make(map[string]*entity.Job), log: log}
}

func (r *memoryJobRepo) Create(_ context.Context, job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
	}
	r.jobs[job.ID] = job.Clone()
	r.log.Debug("job created", "job_id", job.ID)
	return nil
}

func (r *memoryJobRepo) Get(_ context.Context, id string) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	return job.Clone(), nil
}

func (r *memoryJobRepo) Update(_ context.Context, id string, fn func(*entity.Job) error) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	next := job.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.jobs[id] = next
	return next.Clone(), nil
}

func (r *memoryJobRepo) List(_ context.Context, limit int) ([]*entity.Job, error) {
	r.mu.Lock()
	out := make([]*entity.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Clone())
	}
	r.mu.Unlock()

	slices.SortFunc(out, newestFirst)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newestFirst(a, b *entity.Job) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}
