package foods

import (
	"context"

	"github.com/dmitrijs2005/foodlog/internal/models"
)

// Repository describes CRUD and query operations for Food objects.
type Repository interface {
	// Insert stores a new food and returns its id.
	Insert(ctx context.Context, f *models.Food) (int64, error)

	// Update overwrites description, kind, notes and nutrients by id.
	Update(ctx context.Context, f *models.Food) error

	DeleteByID(ctx context.Context, id int64) error

	// GetByID returns common.ErrorNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*models.Food, error)

	// List returns foods whose description contains filter, ordered by
	// description. An empty filter lists everything.
	List(ctx context.Context, filter string) ([]models.Food, error)
}
