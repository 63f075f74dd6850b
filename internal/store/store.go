// Package store opens the food log database and prepares its schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/foodlog/internal/repomanager"
	_ "modernc.org/sqlite"
)

// Store bundles the connection pool with the repository manager.
type Store struct {
	DB   *sql.DB
	Repo repomanager.RepositoryManager
}

// WithBusyTimeout appends a busy_timeout pragma to dsn unless the DSN already
// carries query parameters.
func WithBusyTimeout(dsn string, timeout time.Duration) string {
	if timeout <= 0 || strings.Contains(dsn, "?") {
		return dsn
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", dsn, timeout.Milliseconds())
}

// InitDatabase opens the SQLite database at dsn and runs migrations.
func InitDatabase(ctx context.Context, dsn string, busyTimeout time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", WithBusyTimeout(dsn, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rm := repomanager.NewSQLiteRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{DB: db, Repo: rm}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
