package daily

import (
	"testing"

	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date, desc string, amount, energy float64) models.Eaten {
	return models.Eaten{DateEaten: date, Description: desc, Amount: amount, Nutrients: nutrients.Vector{Energy: energy, Protein: energy / 10}}
}

func TestAggregate_SumsWithoutRounding(t *testing.T) {
	records := []models.Eaten{
		rec("5-Mar-24", "Bread", 30, 0.333),
		rec("5-Mar-24", "Cheese #", 20, 0.333),
		rec("5-Mar-24", "Apple", 150, 0.334),
	}

	got := Aggregate(records)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, 200.0, got[0].Amount)
	assert.Equal(t, "g", got[0].UnitLabel)

	var want nutrients.Vector
	for _, r := range records {
		want = want.Add(r.Nutrients)
	}
	assert.Equal(t, want, got[0].Nutrients)
}

func TestAggregate_UnitLabels(t *testing.T) {
	got := Aggregate([]models.Eaten{
		rec("1-Mar-24", "Milk mL", 250, 675),
		rec("1-Mar-24", "Juice mL#", 200, 400),
		rec("2-Mar-24", "Milk mL", 250, 675),
		rec("2-Mar-24", "Bread", 50, 500),
	})
	require.Len(t, got, 2)

	assert.Equal(t, "2-Mar-24", got[0].Date)
	assert.Equal(t, MixedUnits, got[0].UnitLabel)
	assert.Equal(t, 300.0, got[0].Amount)

	assert.Equal(t, "1-Mar-24", got[1].Date)
	assert.Equal(t, "mL", got[1].UnitLabel)
	assert.Equal(t, 1075.0, got[1].Nutrients.Energy)
}

func TestAggregate_OrderByParsedDate(t *testing.T) {
	got := Aggregate([]models.Eaten{
		rec("9-Feb-24", "Bread", 1, 1),
		rec("not a date", "Bread", 1, 1),
		rec("10-Feb-24", "Bread", 1, 1),
		rec("1-Jan-25", "Bread", 1, 1),
	})

	var dates []string
	for _, d := range got {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []string{"1-Jan-25", "10-Feb-24", "9-Feb-24", "not a date"}, dates)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
