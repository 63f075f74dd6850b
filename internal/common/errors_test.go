package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPersistence(t *testing.T) {
	assert.NoError(t, WrapPersistence("noop", nil))

	err := WrapPersistence("insert food", errors.New("disk I/O error"))
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "persistence error: insert food: disk I/O error", err.Error())

	nf := fmt.Errorf("food 3: %w", ErrorNotFound)
	assert.Same(t, nf, WrapPersistence("get food", nf))

	div := fmt.Errorf("x: %w", ErrDivisionByZero)
	got := WrapPersistence("update", div)
	require.ErrorIs(t, got, ErrDivisionByZero)
	require.NotErrorIs(t, got, ErrPersistence)
}
