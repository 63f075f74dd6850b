// Package repomanager provides a RepositoryManager for SQLite, wiring
// together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/repositories/eaten"
	"github.com/dmitrijs2005/foodlog/internal/repositories/foods"
	"github.com/dmitrijs2005/foodlog/internal/repositories/recipes"
	"github.com/dmitrijs2005/foodlog/internal/repositories/weights"
)

// RepositoryManager vends repositories bound to a DBTX, so callers pick
// whether they run on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Foods(db dbx.DBTX) foods.Repository
	Eaten(db dbx.DBTX) eaten.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	Weights(db dbx.DBTX) weights.Repository
}
