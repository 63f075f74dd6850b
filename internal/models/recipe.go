package models

import (
	"fmt"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
)

// DraftFoodID is the FoodId of a recipe line not yet linked to a parent food.
const DraftFoodID int64 = 0

const (
	CopyFlagLive  = 0
	CopyFlagDraft = 1
)

// LineStatus is the tagged view of a recipe line.
type LineStatus int

const (
	// LineLive belongs to a committed recipe.
	LineLive LineStatus = iota
	// LineDraft belongs to an open staging session.
	LineDraft
)

func (s LineStatus) String() string {
	if s == LineDraft {
		return "draft"
	}
	return "live"
}

// RecipeLine is a row of the Recipe table: one ingredient of a recipe.
type RecipeLine struct {
	ID int64

	// FoodID is the parent recipe food, or DraftFoodID for a new draft.
	FoodID int64

	// CopyFlag is CopyFlagDraft for the working copy made when a committed
	// recipe is opened for editing.
	CopyFlag int

	// SessionID names the staging session owning a draft line. Empty for
	// live lines.
	SessionID string

	// Amount is in grams.
	Amount      float64
	Description string

	// Nutrients are scaled to Amount.
	Nutrients nutrients.Vector
}

// Status reports whether the line is live or a draft.
func (l *RecipeLine) Status() LineStatus {
	if l.FoodID == DraftFoodID || l.CopyFlag == CopyFlagDraft {
		return LineDraft
	}
	return LineLive
}

// Rescale changes the amount, scaling nutrients by new/old.
func (l *RecipeLine) Rescale(amount float64) error {
	if l.Amount == 0 {
		return fmt.Errorf("%w: recipe line %d has an amount of 0", common.ErrDivisionByZero, l.ID)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: ingredient amount must be positive", common.ErrValidation)
	}
	l.Nutrients = l.Nutrients.Scale(amount / l.Amount)
	l.Amount = amount
	return nil
}

// TotalAmount sums the line amounts in grams.
func TotalAmount(lines []RecipeLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Amount
	}
	return total
}
