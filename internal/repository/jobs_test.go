package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

func backends(t *testing.T) map[string]JobRepository {
	t.Helper()
	db, err := Open(context.Background(), Config{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]JobRepository{
		"memory": NewMemoryJobRepository(nil),
		"sqlite": NewSQLiteJobRepository(db, nil),
	}
}

func TestJobRepository_CreateGet(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			job := entity.NewJob(entity.JobInput{Keyword: "coffee", Location: "Baku", Budget: "$1"})
			require.NoError(t, repo.Create(ctx, job))

			got, err := repo.Get(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, job.ID, got.ID)
			assert.Equal(t, job.Input, got.Input)
			assert.Equal(t, constants.JobStatusWaiting, got.Status)
			assert.Equal(t, 0, got.Progress)
			assert.Nil(t, got.Result)
			assert.Nil(t, got.Error)
			assert.True(t, job.CreatedAt.Equal(got.CreatedAt))

			assert.ErrorIs(t, repo.Create(ctx, job), ErrJobExists)

			_, err = repo.Get(ctx, "job-missing")
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}
}

func TestJobRepository_UpdateLifecycle(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			job := entity.NewJob(entity.JobInput{Keyword: "k"})
			require.NoError(t, repo.Create(ctx, job))

			_, err := repo.Update(ctx, job.ID, (*entity.Job).Start)
			require.NoError(t, err)

			_, err = repo.Update(ctx, job.ID, (*entity.Job).Start)
			assert.ErrorIs(t, err, entity.ErrInvalidTransition)

			_, err = repo.Update(ctx, job.ID, func(j *entity.Job) error { return j.SetProgress(42) })
			require.NoError(t, err)

			report := entity.Report{Problem: "P", FirstSteps: []string{"a"}}
			done, err := repo.Update(ctx, job.ID, func(j *entity.Job) error { return j.Complete(report) })
			require.NoError(t, err)
			assert.Equal(t, 100, done.Progress)

			got, err := repo.Get(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, constants.JobStatusCompleted, got.Status)
			require.NotNil(t, got.Result)
			assert.Equal(t, "P", got.Result.Problem)
			assert.Equal(t, []string{"a"}, got.Result.FirstSteps)
			assert.NotNil(t, got.StartedAt)
			assert.NotNil(t, got.CompletedAt)

			_, err = repo.Update(ctx, job.ID, func(j *entity.Job) error { return j.Fail("late") })
			assert.ErrorIs(t, err, entity.ErrInvalidTransition)

			_, err = repo.Update(ctx, "job-missing", (*entity.Job).Start)
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}
}

func TestJobRepository_FailedUpdateLeavesRecord(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			job := entity.NewJob(entity.JobInput{Keyword: "k"})
			require.NoError(t, repo.Create(ctx, job))

			_, err := repo.Update(ctx, job.ID, func(j *entity.Job) error {
				j.Progress = 77
				return fmt.Errorf("nope")
			})
			require.Error(t, err)

			got, err := repo.Get(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Progress)
		})
	}
}

func TestJobRepository_GetReturnsCopy(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			job := entity.NewJob(entity.JobInput{Keyword: "k"})
			require.NoError(t, repo.Create(ctx, job))

			got, err := repo.Get(ctx, job.ID)
			require.NoError(t, err)
			got.Status = constants.JobStatusFailed

			again, err := repo.Get(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, constants.JobStatusWaiting, again.Status)
		})
	}
}

func TestJobRepository_ConcurrentStartHasOneWinner(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			job := entity.NewJob(entity.JobInput{Keyword: "k"})
			require.NoError(t, repo.Create(ctx, job))

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := repo.Update(ctx, job.ID, (*entity.Job).Start); err == nil {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, wins)
		})
	}
}

func TestJobRepository_ListNewestFirst(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC()
			var ids []string
			for i := 0; i < 3; i++ {
				j := entity.NewJob(entity.JobInput{Keyword: fmt.Sprint(i)})
				j.CreatedAt = base.Add(time.Duration(i) * time.Second)
				require.NoError(t, repo.Create(ctx, j))
				ids = append(ids, j.ID)
			}

			all, err := repo.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, ids[2], all[0].ID)
			assert.Equal(t, ids[0], all[2].ID)

			two, err := repo.List(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, two, 2)
		})
	}
}

func TestSQLiteJobRepository_ClosedDatabaseErrorsAreWrapped(t *testing.T) {
	db, err := Open(context.Background(), Config{}, nil)
	require.NoError(t, err)
	repo := NewSQLiteJobRepository(db, nil)
	require.NoError(t, db.Close())

	ctx := context.Background()
	err = repo.Create(ctx, entity.NewJob(entity.JobInput{Keyword: "k"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert job: ")

	_, err = repo.List(ctx, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list jobs: ")

	_, err = repo.Update(ctx, "job-x", (*entity.Job).Start)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx: ")
	assert.NotErrorIs(t, err, common.ErrNotFound)
}
