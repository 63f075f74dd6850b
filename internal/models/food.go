// Package models defines the persisted food log entities.
package models

import (
	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
)

// Food is a row of the Foods table.
type Food struct {
	// ID is assigned by the database on insert.
	ID int64

	// Description carries the kind markers (see package description).
	Description string

	// Kind is derived from Description and stored alongside it.
	Kind description.Kind

	// Nutrients are per 100 g, or per 100 mL for liquids.
	Nutrients nutrients.Vector

	Notes string
}

// NewFood returns a Food whose Kind matches desc.
func NewFood(desc string, v nutrients.Vector, notes string) *Food {
	return &Food{Description: desc, Kind: description.KindOf(desc), Nutrients: v, Notes: notes}
}

// Unit is "g" or "mL".
func (f *Food) Unit() string {
	return description.UnitOf(f.Kind)
}

// Name is the description without kind markers.
func (f *Food) Name() string {
	return description.DisplayName(f.Description)
}
