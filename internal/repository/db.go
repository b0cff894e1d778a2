package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/ideascout/internal/common"
)

type Config struct {
	// Name distinguishes in-memory databases; empty picks a unique one.
	Name        string
	DialTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY,
	keyword      TEXT    NOT NULL,
	location     TEXT    NOT NULL,
	budget       TEXT    NOT NULL,
	status       TEXT    NOT NULL,
	progress     INTEGER NOT NULL DEFAULT 0,
	result       TEXT,
	error        TEXT,
	created_at   INTEGER NOT NULL,
	started_at   INTEGER,
	completed_at INTEGER
);
CREATE INDEX IF NOT EXISTS jobs_created_at ON jobs (created_at DESC);
`

// Open creates a process-local in-memory SQLite database and applies the
// jobs schema. Nothing is written to disk; the data is gone once db closes.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "ideascout-" + uuid.NewString()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", cfg.Name)
	logger.Info("opening job database", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open job database", "error", err)
		return nil, err
	}
	// One connection keeps the shared in-memory database alive and
	// serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		logger.Error("failed to apply job schema", "error", err)
		return nil, common.WrapError(err, "apply schema")
	}

	logger.Info("job database ready")
	return db, nil
}

// Close closes the database gracefully
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	logger.Info("closing job database")
	if err := db.Close(); err != nil {
		logger.Error("failed to close job database", "error", err)
	}
}

// HealthCheck pings the database.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging job database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}
