package eaten

import (
	"context"

	"github.com/dmitrijs2005/foodlog/internal/models"
)

// Repository describes CRUD and query operations for Eaten records.
type Repository interface {
	Insert(ctx context.Context, e *models.Eaten) (int64, error)
	Update(ctx context.Context, e *models.Eaten) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Eaten, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]models.Eaten, error)

	// ListByDate returns the records of one d-MMM-yy date, newest first.
	ListByDate(ctx context.Context, date string) ([]models.Eaten, error)
}
