package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/migrations"
	"github.com/dmitrijs2005/foodlog/internal/repositories/eaten"
	"github.com/dmitrijs2005/foodlog/internal/repositories/foods"
	"github.com/dmitrijs2005/foodlog/internal/repositories/recipes"
	"github.com/dmitrijs2005/foodlog/internal/repositories/weights"
	"github.com/pressly/goose/v3"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// and exposes a schema migration hook.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Foods(db dbx.DBTX) foods.Repository {
	return foods.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Eaten(db dbx.DBTX) eaten.Repository {
	return eaten.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Weights(db dbx.DBTX) weights.Repository {
	return weights.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
