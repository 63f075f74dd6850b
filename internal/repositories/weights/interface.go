// Package weights persists body weight entries (the Weight table).
package weights

import (
	"context"

	"github.com/dmitrijs2005/foodlog/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, w *models.WeightEntry) (int64, error)
	Update(ctx context.Context, w *models.WeightEntry) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.WeightEntry, error)

	// List returns all entries, most recent date first. Dates that do not
	// parse sort last.
	List(ctx context.Context) ([]models.WeightEntry, error)
}
