package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "0", "-3", "1.5", "abc"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, common.ErrValidation, bad)
	}
}

func TestParseAmount(t *testing.T) {
	f, err := parseAmount("62.5")
	require.NoError(t, err)
	assert.Equal(t, 62.5, f)

	for _, bad := range []string{"", "NaN", "Inf", "ten"} {
		_, err := parseAmount(bad)
		assert.ErrorIs(t, err, common.ErrValidation, bad)
	}
}

func TestBuildVector(t *testing.T) {
	values := make([]string, nutrients.Count)
	for i := range values {
		values[i] = "1"
	}

	v, err := buildVector(values, []string{"energy=270", "Protein=3.4"})
	require.NoError(t, err)
	assert.Equal(t, 270.0, v.Energy)
	assert.Equal(t, 3.4, v.Protein)
	assert.Equal(t, 1.0, v.Alcohol)

	v, err = buildVector(nil, []string{"SodiumNa=40"})
	require.NoError(t, err)
	assert.Equal(t, nutrients.Vector{Sodium: 40}, v)

	_, err = buildVector([]string{"1", "2"}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = buildVector(nil, []string{"Unobtainium=1"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = buildVector(nil, []string{"Energy"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestInteractive(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	isTerminal = func(int) bool { return true }
	assert.True(t, interactive(os.Stdin))
	assert.False(t, interactive(strings.NewReader("add 1 2")))

	isTerminal = func(int) bool { return false }
	assert.False(t, interactive(os.Stdin))
}
