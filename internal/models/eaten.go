package models

import (
	"fmt"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/timex"
)

// Eaten is a row of the Eaten table: one logged consumption of a food.
type Eaten struct {
	ID int64

	// DateEaten is d-MMM-yy, TimeEaten is HH:mm.
	DateEaten string
	TimeEaten string

	// EatenMinutes is the sortable time key derived from DateEaten/TimeEaten.
	EatenMinutes int64

	Amount      float64
	Description string

	// Nutrients are already scaled to Amount.
	Nutrients nutrients.Vector
}

// NewEaten logs amount of food at the given date and time.
func NewEaten(food *Food, amount float64, date, clock string) (*Eaten, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", common.ErrValidation)
	}
	minutes, err := timex.EatenMinutes(date, clock)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return &Eaten{
		DateEaten:    date,
		TimeEaten:    clock,
		EatenMinutes: minutes,
		Amount:       amount,
		Description:  food.Description,
		Nutrients:    food.Nutrients.Scale(amount / 100),
	}, nil
}

// Rescale changes the amount, re-deriving the nutrients by the ratio of new
// to old amount and the time key from date and clock. e is left unchanged on
// error.
func (e *Eaten) Rescale(amount float64, date, clock string) error {
	if e.Amount == 0 {
		return fmt.Errorf("%w: eaten record %d has a stored amount of 0", common.ErrDivisionByZero, e.ID)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", common.ErrValidation)
	}
	minutes, err := timex.EatenMinutes(date, clock)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	e.Nutrients = e.Nutrients.Scale(amount / e.Amount)
	e.Amount = amount
	e.DateEaten = date
	e.TimeEaten = clock
	e.EatenMinutes = minutes
	return nil
}
