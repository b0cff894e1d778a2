package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

type sqliteJobRepo struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteJobRepository expects a db prepared by Open.
func NewSQLiteJobRepository(db *sql.DB, log *slog.Logger) JobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &sqliteJobRepo{db: db, log: log}
}

const jobColumns = `id, keyword, location, budget, status, progress, result, error, created_at, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *sqliteJobRepo) Create(ctx context.Context, job *entity.Job) error {
	row, err := toRow(job)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.args()...,
	)
	if err != nil {
		var exists bool
		if qerr := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)`, job.ID).Scan(&exists); qerr == nil && exists {
			return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
		}
		r.log.Error("job create failed", "job_id", job.ID, "err", err)
		return common.WrapError(err, "insert job")
	}
	r.log.Debug("job created", "job_id", job.ID)
	return nil
}

func (r *sqliteJobRepo) Get(ctx context.Context, id string) (*entity.Job, error) {
	return scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id), id)
}

func (r *sqliteJobRepo) Update(ctx context.Context, id string, fn func(*entity.Job) error) (*entity.Job, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.WrapError(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	job, err := scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id), id)
	if err != nil {
		return nil, err
	}
	if err := fn(job); err != nil {
		return nil, err
	}

	row, err := toRow(job)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET status = ?, progress = ?, result = ?, error = ?, started_at = ?, completed_at = ? WHERE id = ?`,
		row.Status, row.Progress, row.Result, row.Error, row.StartedAt, row.CompletedAt, row.ID,
	)
	if err != nil {
		r.log.Error("job update failed", "job_id", id, "err", err)
		return nil, common.WrapError(err, "update job")
	}
	if err := tx.Commit(); err != nil {
		return nil, common.WrapError(err, "commit")
	}
	return job.Clone(), nil
}

func (r *sqliteJobRepo) List(ctx context.Context, limit int) ([]*entity.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "list jobs")
	}
	defer rows.Close()

	var out []*entity.Job
	for rows.Next() {
		job, err := scanJob(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

type jobRow struct {
	ID          string
	Keyword     string
	Location    string
	Budget      string
	Status      string
	Progress    int
	Result      sql.NullString
	Error       sql.NullString
	CreatedAt   int64
	StartedAt   sql.NullInt64
	CompletedAt sql.NullInt64
}

func (r jobRow) args() []any {
	return []any{r.ID, r.Keyword, r.Location, r.Budget, r.Status, r.Progress, r.Result, r.Error, r.CreatedAt, r.StartedAt, r.CompletedAt}
}

func toRow(j *entity.Job) (jobRow, error) {
	row := jobRow{
		ID:        j.ID,
		Keyword:   j.Input.Keyword,
		Location:  j.Input.Location,
		Budget:    j.Input.Budget,
		Status:    string(j.Status),
		Progress:  j.Progress,
		CreatedAt: j.CreatedAt.UnixNano(),
	}
	if j.Result != nil {
		b, err := json.Marshal(j.Result)
		if err != nil {
			return jobRow{}, common.WrapError(err, "encode result")
		}
		row.Result = sql.NullString{String: string(b), Valid: true}
	}
	if j.Error != nil {
		row.Error = sql.NullString{String: *j.Error, Valid: true}
	}
	if j.StartedAt != nil {
		row.StartedAt = sql.NullInt64{Int64: j.StartedAt.UnixNano(), Valid: true}
	}
	if j.CompletedAt != nil {
		row.CompletedAt = sql.NullInt64{Int64: j.CompletedAt.UnixNano(), Valid: true}
	}
	return row, nil
}

func scanJob(s rowScanner, id string) (*entity.Job, error) {
	var row jobRow
	err := s.Scan(&row.ID, &row.Keyword, &row.Location, &row.Budget, &row.Status, &row.Progress,
		&row.Result, &row.Error, &row.CreatedAt, &row.StartedAt, &row.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "scan job")
	}

	job := &entity.Job{
		ID:        row.ID,
		Input:     entity.JobInput{Keyword: row.Keyword, Location: row.Location, Budget: row.Budget},
		Status:    constants.JobStatus(row.Status),
		Progress:  row.Progress,
		CreatedAt: time.Unix(0, row.CreatedAt).UTC(),
	}
	if row.Result.Valid {
		var rep entity.Report
		if err := json.Unmarshal([]byte(row.Result.String), &rep); err != nil {
			return nil, common.WrapError(err, "decode result")
		}
		rep = rep.Normalized()
		job.Result = &rep
	}
	if row.Error.Valid {
		e := row.Error.String
		job.Error = &e
	}
	if row.StartedAt.Valid {
		t := time.Unix(0, row.StartedAt.Int64).UTC()
		job.StartedAt = &t
	}
	if row.CompletedAt.Valid {
		t := time.Unix(0, row.CompletedAt.Int64).UTC()
		job.CompletedAt = &t
	}
	return job, nil
}
