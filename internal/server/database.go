package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ideascout/internal/common"
	repo "github.com/joseph-ayodele/ideascout/internal/repository"
)

// OpenJobRepository builds the configured job store. The returned close func
// is always safe to call.
func OpenJobRepository(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (repo.JobRepository, func(), error) {
	switch cfg.Backend {
	case "", common.StoreMemory:
		logger.Info("using in-memory job store")
		return repo.NewMemoryJobRepository(logger), func() {}, nil
	case common.StoreSQLite:
		db, err := repo.Open(ctx, repo.Config{DialTimeout: 3 * time.Second}, logger)
		if err != nil {
			logger.Error("failed to open job database", "error", err)
			return nil, func() {}, err
		}
		if err := repo.HealthCheck(ctx, db, time.Second, logger); err != nil {
			repo.Close(db, logger)
			return nil, func() {}, fmt.Errorf("job database health check: %w", err)
		}
		return repo.NewSQLiteJobRepository(db, logger), func() { repo.Close(db, logger) }, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown job store backend %q", cfg.Backend)
	}
}
