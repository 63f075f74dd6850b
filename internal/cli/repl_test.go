package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/staging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	defaultName string
	closed      bool
	nextLine    int64
	lines       []models.RecipeLine

	calls     []string
	committed string
	commitErr error
}

func (f *fakeSession) DefaultName() string { return f.defaultName }
func (f *fakeSession) Closed() bool        { return f.closed }

func (f *fakeSession) AddIngredient(_ context.Context, foodID int64, amount float64) (*models.RecipeLine, error) {
	f.calls = append(f.calls, fmt.Sprintf("add %d %g", foodID, amount))
	f.nextLine++
	l := models.RecipeLine{ID: f.nextLine, Amount: amount, Description: "Oats #", Nutrients: nutrients.Vector{Energy: amount}}
	f.lines = append(f.lines, l)
	return &l, nil
}

func (f *fakeSession) UpdateIngredient(_ context.Context, lineID int64, amount float64) (*models.RecipeLine, error) {
	f.calls = append(f.calls, fmt.Sprintf("amount %d %g", lineID, amount))
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines[i].Amount = amount
			return &f.lines[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSession) RemoveIngredient(_ context.Context, lineID int64) error {
	f.calls = append(f.calls, fmt.Sprintf("remove %d", lineID))
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeSession) Lines(context.Context) ([]models.RecipeLine, error) {
	return f.lines, nil
}

func (f *fakeSession) Totals(context.Context) (staging.Totals, error) {
	return staging.Totals{Lines: len(f.lines), Weight: models.TotalAmount(f.lines)}, nil
}

func (f *fakeSession) Commit(_ context.Context, name string) (int64, error) {
	f.calls = append(f.calls, "commit "+name)
	if f.commitErr != nil {
		return 0, f.commitErr
	}
	if strings.TrimSpace(name) == "" {
		return 0, common.ErrValidation
	}
	f.committed = name
	f.closed = true
	return 42, nil
}

func (f *fakeSession) Abort(context.Context) error {
	f.calls = append(f.calls, "abort")
	f.closed = true
	return nil
}

func script(lines ...string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_ComposeAndCommit(t *testing.T) {
	s := &fakeSession{}
	var out bytes.Buffer

	id, err := runREPL(context.Background(), s, script(
		"help",
		"add 5 100",
		"add x 1",
		"add 6 150",
		"amount 1 50",
		"remove 2",
		"remove",
		"list",
		"frobnicate",
		"commit",
		"commit My Mix",
	), &out, false)

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "My Mix", s.committed)
	assert.Equal(t, []string{"add 5 100", "add 6 150", "amount 1 50", "remove 2", "commit ", "commit My Mix"}, s.calls)

	text := out.String()
	assert.Contains(t, text, "commit [name]")
	assert.Contains(t, text, `Error: validation error: "x" is not a valid id`)
	assert.Contains(t, text, "Usage: remove <line>")
	assert.Contains(t, text, "Total: 1 lines, 50 g")
	assert.Contains(t, text, "Unknown command: frobnicate")
	assert.NotContains(t, text, "recipe> ")
}

func TestRunREPL_CommitUsesDefaultName(t *testing.T) {
	s := &fakeSession{defaultName: "Porridge"}
	var out bytes.Buffer

	_, err := runREPL(context.Background(), s, script("add 1 10", "commit"), &out, true)
	require.NoError(t, err)
	assert.Equal(t, "Porridge", s.committed)
	assert.Contains(t, out.String(), `Recipe "Porridge"`)
	assert.Contains(t, out.String(), "recipe> ")
}

func TestRunREPL_EndOfInputAborts(t *testing.T) {
	s := &fakeSession{}

	_, err := runREPL(context.Background(), s, script("add 1 10"), &bytes.Buffer{}, false)
	require.ErrorIs(t, err, errAborted)
	assert.Equal(t, "abort", s.calls[len(s.calls)-1])
}

func TestRunREPL_AbortCommand(t *testing.T) {
	s := &fakeSession{}

	_, err := runREPL(context.Background(), s, script("abort", "add 1 10"), &bytes.Buffer{}, false)
	require.ErrorIs(t, err, errAborted)
	assert.Equal(t, []string{"abort"}, s.calls)
}

func TestRunREPL_ClosedByFailedCommitEndsLoop(t *testing.T) {
	s := &fakeSession{commitErr: fmt.Errorf("%w: relinked 1 of 2 lines", common.ErrLinkIntegrity)}

	// The session closes itself on a link failure.
	closing := &closingSession{fakeSession: s}
	_, err := runREPL(context.Background(), closing, script("add 1 10", "commit Mix", "list"), &bytes.Buffer{}, false)
	require.ErrorIs(t, err, common.ErrLinkIntegrity)
	assert.Equal(t, []string{"add 1 10", "commit Mix"}, s.calls)
}

type closingSession struct {
	*fakeSession
}

func (c *closingSession) Commit(ctx context.Context, name string) (int64, error) {
	id, err := c.fakeSession.Commit(ctx, name)
	c.closed = true
	return id, err
}
