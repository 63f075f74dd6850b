package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBusyTimeout(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", WithBusyTimeout("a.db", 5*time.Second))
	assert.Equal(t, "a.db?mode=ro", WithBusyTimeout("a.db?mode=ro", 5*time.Second))
	assert.Equal(t, "a.db", WithBusyTimeout("a.db", 0))
}

func TestInitDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.db")
	s, err := InitDatabase(context.Background(), path, time.Second)
	require.NoError(t, err)
	defer s.Close()

	list, err := s.Repo.Weights(s.DB).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "log.db"), time.Second)
	require.Error(t, err)
}
