// Package daily folds consumption records into per-date totals.
package daily

import (
	"sort"

	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/timex"
)

// MixedUnits labels a day whose records mix grams and millilitres. Amounts
// are summed numerically regardless.
const MixedUnits = "mixed units"

// Total is the sum of all records sharing one DateEaten string.
type Total struct {
	Date      string
	Count     int
	Amount    float64
	UnitLabel string
	Nutrients nutrients.Vector
}

// Aggregate groups records by their date string and sums amounts and
// nutrients without rounding. Groups are returned newest date first;
// unparsable dates sort last.
func Aggregate(records []models.Eaten) []Total {
	byDate := make(map[string]*Total)
	var order []string

	for _, e := range records {
		t, ok := byDate[e.DateEaten]
		if !ok {
			t = &Total{Date: e.DateEaten}
			byDate[e.DateEaten] = t
			order = append(order, e.DateEaten)
		}
		unit := description.Unit(e.Description)
		switch {
		case t.Count == 0:
			t.UnitLabel = unit
		case t.UnitLabel != unit:
			t.UnitLabel = MixedUnits
		}
		t.Count++
		t.Amount += e.Amount
		t.Nutrients = t.Nutrients.Add(e.Nutrients)
	}

	out := make([]Total, 0, len(order))
	for _, d := range order {
		out = append(out, *byDate[d])
	}
	SortNewestFirst(out, func(t Total) string { return t.Date })
	return out
}

// SortNewestFirst orders items by parsed date descending, then by the raw
// date string so equal keys stay deterministic.
func SortNewestFirst[T any](items []T, date func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := date(items[i]), date(items[j])
		ki, kj := timex.DateSortKey(di), timex.DateSortKey(dj)
		if !ki.Equal(kj) {
			return ki.After(kj)
		}
		return di > dj
	})
}
