package nutrients

import (
	"testing"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Vector {
	return Vector{
		Energy: 270, Protein: 3.4, FatTotal: 3.6, SaturatedFat: 2.3, TransFat: 0.1,
		PolyunsaturatedFat: 0.1, MonounsaturatedFat: 0.9, Carbohydrate: 4.8, Sugars: 4.8,
		DietaryFibre: 0, Sodium: 40, Calcium: 120, Potassium: 150, ThiaminB1: 0.04,
		RiboflavinB2: 0.18, NiacinB3: 0.1, Folate: 5, Iron: 0.03, Magnesium: 11,
		VitaminC: 1, Caffeine: 0, Cholesterol: 12, Alcohol: 0,
	}
}

func TestFieldsMatchVectorLayout(t *testing.T) {
	var v Vector
	require.Len(t, v.Pointers(), len(Fields))
	require.Equal(t, 23, Count)
	assert.Equal(t, "Energy", Columns()[0])
	assert.Equal(t, "Alcohol", Columns()[Count-1])
}

func TestScale_MilkScenario(t *testing.T) {
	got := sample().Scale(250.0 / 100)
	assert.Equal(t, 675.0, got.Energy)
	assert.Equal(t, 8.5, got.Protein)
	assert.Equal(t, 0.45, got.RiboflavinB2)
}

func TestScale_RoundsToTwoDecimals(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		factor float64
		want   float64
	}{
		{"half up", 0.125, 1, 0.13},
		{"half up negative", -0.125, 1, -0.13},
		{"thirds", 10, 1.0 / 3, 3.33},
		{"two thirds", 10, 2.0 / 3, 6.67},
		{"density", 270, 1 / 1.03, 262.14},
		{"zero", 0, 12.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Vector{Energy: tt.in}.Scale(tt.factor)
			assert.InDelta(t, tt.want, got.Energy, 1e-9)
		})
	}
}

func TestScale_IdempotentOnUnitFactor(t *testing.T) {
	once := sample().Scale(1.37)
	assert.Equal(t, once, once.Scale(1))
}

func TestSum_NoIntermediateRounding(t *testing.T) {
	a := Vector{Energy: 0.004}
	b := Vector{Energy: 0.004}
	got := Sum(a, b)
	assert.InDelta(t, 0.008, got.Energy, 1e-12)
	assert.Equal(t, 0.01, got.Scale(1).Energy)
}

func TestSum_Empty(t *testing.T) {
	assert.Equal(t, Vector{}, Sum())
}

func TestValuesRoundTrip(t *testing.T) {
	v := sample()
	back, err := FromValues(v.Values())
	require.NoError(t, err)
	assert.Equal(t, v, back)

	_, err = FromValues([]float64{1, 2})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestIsAllNumeric(t *testing.T) {
	assert.True(t, IsAllNumeric([]string{"1", " 2.5 ", "-3", "0"}))
	assert.True(t, IsAllNumeric(nil))
	assert.False(t, IsAllNumeric([]string{"1", "abc"}))
	assert.False(t, IsAllNumeric([]string{""}))
	assert.False(t, IsAllNumeric([]string{"NaN"}))
	assert.False(t, IsAllNumeric([]string{"Inf"}))
}

func TestParseFields(t *testing.T) {
	raw := make([]string, Count)
	for i := range raw {
		raw[i] = "1.5"
	}
	raw[0] = "270"

	v, err := ParseFields(raw)
	require.NoError(t, err)
	assert.Equal(t, 270.0, v.Energy)
	assert.Equal(t, 1.5, v.Alcohol)

	raw[3] = "x"
	_, err = ParseFields(raw)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = ParseFields(raw[:5])
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{262.144, 262.14},
		{0.125, 0.13},
		{-0.125, -0.13},
		{2.5, 2.5},
		{1.005, 1},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}
