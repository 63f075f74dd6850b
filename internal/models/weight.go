package models

// WeightEntry is a row of the Weight table. One entry per calendar date is
// expected but not enforced by the schema.
type WeightEntry struct {
	ID       int64
	Date     string // d-MMM-yy
	WeightKg float64
	Comments string
}
