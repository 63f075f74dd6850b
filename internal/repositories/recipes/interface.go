package recipes

import (
	"context"

	"github.com/dmitrijs2005/foodlog/internal/models"
)

// LineFilter selects recipe lines for DeleteWhere. Nil fields are ignored;
// at least one condition must be set.
type LineFilter struct {
	FoodID    *int64
	CopyFlag  *int
	SessionID *string

	// DraftsOnly matches FoodId = 0 OR CopyFg = 1.
	DraftsOnly bool
}

// CopySpec describes a bulk copy of the live lines of one recipe.
type CopySpec struct {
	FromFoodID int64
	ToFoodID   int64
	CopyFlag   int
	SessionID  string
}

type Repository interface {
	Insert(ctx context.Context, l *models.RecipeLine) (int64, error)

	// Update rewrites amount, description and nutrients of a line.
	Update(ctx context.Context, l *models.RecipeLine) error

	GetByID(ctx context.Context, id int64) (*models.RecipeLine, error)
	DeleteByID(ctx context.Context, id int64) error

	// DeleteWhere removes every line matching f and returns the count.
	DeleteWhere(ctx context.Context, f LineFilter) (int64, error)

	// CopyLines duplicates the live lines of spec.FromFoodID in a single
	// statement and returns the number of rows written.
	CopyLines(ctx context.Context, spec CopySpec) (int64, error)

	// Relink attaches the unlinked drafts of a session to foodID and
	// returns the number of lines relinked.
	Relink(ctx context.Context, sessionID string, foodID int64) (int64, error)

	// Promote turns the edit copies of a session into live lines of foodID.
	Promote(ctx context.Context, sessionID string, foodID int64) (int64, error)

	// ListByFood returns the live lines of a recipe food.
	ListByFood(ctx context.Context, foodID int64) ([]models.RecipeLine, error)

	// ListSession returns the draft lines owned by a session.
	ListSession(ctx context.Context, sessionID string) ([]models.RecipeLine, error)
}
