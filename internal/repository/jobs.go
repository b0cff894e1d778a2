package repository

import (
	"context"
	"errors"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// ErrJobExists is returned by Create when the id is already stored.
var ErrJobExists = errors.New("job already exists")

// JobRepository stores job records for the lifetime of the process.
// Get and List return copies; Update is an atomic read-modify-write: fn
// receives a private copy and nothing is written when fn returns an error.
// Unknown ids yield common.ErrNotFound.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	Get(ctx context.Context, id string) (*entity.Job, error)
	Update(ctx context.Context, id string, fn func(*entity.Job) error) (*entity.Job, error)
	List(ctx context.Context, limit int) ([]*entity.Job, error)
}
