package staging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/dbx/dbxtest"
	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/logging"
	"github.com/dmitrijs2005/foodlog/internal/metrics"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
	"github.com/dmitrijs2005/foodlog/internal/repositories/recipes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyManager injects failures into the recipe repository.
type faultyManager struct {
	repomanager.RepositoryManager
	relinkShort bool
	failDrafts  bool
}

func (m *faultyManager) Recipes(db dbx.DBTX) recipes.Repository {
	return &faultyRecipes{Repository: m.RepositoryManager.Recipes(db), m: m}
}

type faultyRecipes struct {
	recipes.Repository
	m *faultyManager
}

func (r *faultyRecipes) Relink(ctx context.Context, sessionID string, foodID int64) (int64, error) {
	n, err := r.Repository.Relink(ctx, sessionID, foodID)
	if r.m.relinkShort {
		n--
	}
	return n, err
}

func (r *faultyRecipes) DeleteWhere(ctx context.Context, f recipes.LineFilter) (int64, error) {
	if r.m.failDrafts && f.DraftsOnly {
		return 0, errors.New("database is locked")
	}
	return r.Repository.DeleteWhere(ctx, f)
}

type fixture struct {
	db     *sql.DB
	rm     *faultyManager
	engine *Engine
	reg    *prometheus.Registry
	seq    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:  dbxtest.NewSQLite(t),
		rm:  &faultyManager{RepositoryManager: repomanager.NewSQLiteRepositoryManager()},
		reg: prometheus.NewRegistry(),
	}
	f.engine = NewEngine(f.db, f.rm, logging.Discard(), metrics.NewStagingMetrics(f.reg))
	f.engine.newID = func() string {
		f.seq++
		return fmt.Sprintf("session-%d", f.seq)
	}
	return f
}

func (f *fixture) food(t *testing.T, desc string, v nutrients.Vector) int64 {
	t.Helper()
	id, err := f.rm.Foods(f.db).Insert(context.Background(), models.NewFood(desc, v, ""))
	require.NoError(t, err)
	return id
}

func (f *fixture) count(t *testing.T, where string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM Recipe WHERE `+where, args...).Scan(&n))
	return n
}

// counter reads a counter from the fixture registry; labels are name/value
// pairs.
func (f *fixture) counter(t *testing.T, name string, labels ...string) float64 {
	t.Helper()
	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for i := 0; i+1 < len(labels); i += 2 {
				if got[labels[i]] != labels[i+1] {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func (f *fixture) drafts(t *testing.T) int {
	return f.count(t, `FoodId = 0 OR CopyFg = 1`)
}

// mix builds the two-ingredient recipe used across tests: 100 g at
// 200 kJ/100 g and 150 g at 66.67 kJ/100 g.
func (f *fixture) mix(t *testing.T) (recipeID, a, b int64) {
	t.Helper()
	ctx := context.Background()
	a = f.food(t, "Oats", nutrients.Vector{Energy: 200, Protein: 10})
	b = f.food(t, "Banana", nutrients.Vector{Energy: 200.0 / 3, Sugars: 12})

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	l1, err := s.AddIngredient(ctx, a, 100)
	require.NoError(t, err)
	l2, err := s.AddIngredient(ctx, b, 150)
	require.NoError(t, err)
	require.Equal(t, 200.0, l1.Nutrients.Energy)
	require.Equal(t, 100.0, l2.Nutrients.Energy)

	recipeID, err = s.Commit(ctx, "Mix")
	require.NoError(t, err)
	return recipeID, a, b
}

func TestCommitAdd_BuildsParentPer100g(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, _, _ := f.mix(t)

	parent, err := f.rm.Foods(f.db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mix {recipe=250g}", parent.Description)
	assert.Equal(t, description.KindRecipe, parent.Kind)
	assert.Equal(t, 120.0, parent.Nutrients.Energy)
	assert.Equal(t, 4.0, parent.Nutrients.Protein)
	assert.Equal(t, 7.2, parent.Nutrients.Sugars)

	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 0 AND SessionId = ''`, id))
	assert.Zero(t, f.drafts(t))
	assert.Nil(t, f.engine.Active())
	assert.Equal(t, 1.0, f.counter(t, "foodlog_staging_commits_total", "mode", "add", "status", metrics.StatusOK))
}

func TestCommitEdit_RescalesAndPromotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.mix(t)

	s, err := f.engine.BeginEdit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mix", s.DefaultName())
	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 1 AND SessionId = ?`, id, s.ID()))

	lines, err := s.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, models.LineDraft, l.Status())
	}

	upd, err := s.UpdateIngredient(ctx, lines[0].ID, 200)
	require.NoError(t, err)
	assert.Equal(t, 400.0, upd.Nutrients.Energy)

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 350.0, totals.Weight)
	assert.Equal(t, 500.0, totals.Nutrients.Energy)

	// the live recipe is untouched until commit
	parent, err := f.rm.Foods(f.db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 120.0, parent.Nutrients.Energy)

	got, err := s.Commit(ctx, s.DefaultName())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	parent, err = f.rm.Foods(f.db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mix {recipe=350g}", parent.Description)
	assert.Equal(t, 142.86, parent.Nutrients.Energy)

	live, err := f.rm.Recipes(f.db).ListByFood(ctx, id)
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, 200.0, live[0].Amount)
	assert.Zero(t, f.drafts(t))
}

func TestCommitCopy_CreatesNewRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.mix(t)

	src, err := f.rm.Foods(f.db).GetByID(ctx, id)
	require.NoError(t, err)
	src.Notes = "family recipe"
	require.NoError(t, f.rm.Foods(f.db).Update(ctx, src))

	s, err := f.engine.BeginCopy(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, f.count(t, `FoodId = 0 AND SessionId = ?`, s.ID()))

	lines, err := s.Lines(ctx)
	require.NoError(t, err)
	require.NoError(t, s.RemoveIngredient(ctx, lines[1].ID))

	newID, err := s.Commit(ctx, "Mix lite")
	require.NoError(t, err)
	assert.NotEqual(t, id, newID)

	cp, err := f.rm.Foods(f.db).GetByID(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, "Mix lite {recipe=100g}", cp.Description)
	assert.Equal(t, 200.0, cp.Nutrients.Energy)
	assert.Equal(t, "family recipe", cp.Notes)

	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 0`, id), "source keeps its lines")
	assert.Equal(t, 1, f.count(t, `FoodId = ? AND CopyFg = 0`, newID))
}

func TestCommit_WeightConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	foods := []int64{
		f.food(t, "Flour", nutrients.Vector{Energy: 1460, Protein: 10.33, Sodium: 2}),
		f.food(t, "Butter", nutrients.Vector{Energy: 3000, FatTotal: 81.11}),
		f.food(t, "Sugar", nutrients.Vector{Energy: 1700, Sugars: 99.8}),
	}
	amounts := []float64{237, 113.5, 67}

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	for i, id := range foods {
		_, err := s.AddIngredient(ctx, id, amounts[i])
		require.NoError(t, err)
	}
	totals, err := s.Totals(ctx)
	require.NoError(t, err)

	id, err := s.Commit(ctx, "Shortbread")
	require.NoError(t, err)
	parent, err := f.rm.Foods(f.db).GetByID(ctx, id)
	require.NoError(t, err)

	tolerance := 0.005*totals.Weight/100 + 1e-9
	want := totals.Nutrients.Values()
	for i, v := range parent.Nutrients.Values() {
		assert.LessOrEqual(t, math.Abs(v*totals.Weight/100-want[i]), tolerance, nutrients.Fields[i].Column)
	}
}

func TestCommit_ValidationKeepsSessionOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oats := f.food(t, "Oats", nutrients.Vector{Energy: 1600})

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)

	_, err = s.Commit(ctx, "Empty")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, s.Closed())

	_, err = s.AddIngredient(ctx, oats, 50)
	require.NoError(t, err)
	_, err = s.Commit(ctx, "   ")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, s.Closed())
	assert.Equal(t, 1, f.drafts(t))

	var foods int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM Foods`).Scan(&foods))
	assert.Equal(t, 1, foods)

	_, err = s.Commit(ctx, "Oat bowl")
	require.NoError(t, err)
}

func TestAddIngredient_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	milk := f.food(t, "Milk mL", nutrients.Vector{Energy: 270})
	oats := f.food(t, "Oats", nutrients.Vector{Energy: 1600})

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)

	_, err = s.AddIngredient(ctx, milk, 100)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = s.AddIngredient(ctx, oats, 0)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = s.AddIngredient(ctx, 999, 10)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Zero(t, f.drafts(t))
}

func TestBeginEditAndCopy_RequireRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oats := f.food(t, "Oats", nutrients.Vector{Energy: 1600})

	_, err := f.engine.BeginEdit(ctx, oats)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = f.engine.BeginCopy(ctx, 12345)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Nil(t, f.engine.Active())

	recipeID, _, _ := f.mix(t)
	s, err := f.engine.BeginEdit(ctx, recipeID)
	require.NoError(t, err)
	_, err = s.AddIngredient(ctx, recipeID, 10)
	require.ErrorIs(t, err, common.ErrValidation, "a recipe cannot contain itself")
}

func TestBegin_SupersedesAndSweeps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oats := f.food(t, "Oats", nutrients.Vector{Energy: 1600})

	s1, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	l1, err := s1.AddIngredient(ctx, oats, 40)
	require.NoError(t, err)

	s2, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	assert.True(t, s1.Closed())
	assert.Same(t, s2, f.engine.Active())
	assert.Zero(t, f.drafts(t), "stale drafts are swept on entry")

	_, err = s1.AddIngredient(ctx, oats, 10)
	require.ErrorIs(t, err, common.ErrSessionClosed)
	_, err = s1.Commit(ctx, "old")
	require.ErrorIs(t, err, common.ErrSessionClosed)
	require.ErrorIs(t, s1.Abort(ctx), common.ErrSessionClosed)

	// lines of another session are invisible
	_, err = s2.AddIngredient(ctx, oats, 20)
	require.NoError(t, err)
	_, err = s2.UpdateIngredient(ctx, l1.ID, 50)
	require.ErrorIs(t, err, common.ErrorNotFound)

	lines, err := s2.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20.0, lines[0].Amount)
}

func TestBegin_SweepsOrphanedDrafts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.mix(t)

	// leftovers of a crashed process
	repo := f.rm.Recipes(f.db)
	_, err := repo.Insert(ctx, &models.RecipeLine{FoodID: 0, SessionID: "crashed", Amount: 5, Description: "x"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &models.RecipeLine{FoodID: id, CopyFlag: models.CopyFlagDraft, SessionID: "crashed", Amount: 5, Description: "x"})
	require.NoError(t, err)

	s, err := f.engine.BeginEdit(ctx, id)
	require.NoError(t, err)

	lines, err := s.Lines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, 2, f.drafts(t))
}

func TestBeginEdit_TwiceDoesNotDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _, _ := f.mix(t)

	first, err := f.engine.BeginEdit(ctx, id)
	require.NoError(t, err)
	second, err := f.engine.BeginEdit(ctx, id)
	require.NoError(t, err)

	assert.True(t, first.Closed())
	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 1`, id))
	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 1 AND SessionId = ?`, id, second.ID()))
	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 0`, id))

	lines, err := second.Lines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAbort_DrainsDraftsAndCloses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, a, _ := f.mix(t)

	s, err := f.engine.BeginEdit(ctx, id)
	require.NoError(t, err)
	_, err = s.AddIngredient(ctx, a, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, f.drafts(t))

	require.NoError(t, s.Abort(ctx))
	assert.True(t, s.Closed())
	assert.Nil(t, f.engine.Active())
	assert.Zero(t, f.drafts(t))
	assert.Equal(t, 2, f.count(t, `FoodId = ? AND CopyFg = 0`, id), "live lines survive abort")

	_, err = s.Lines(ctx)
	require.ErrorIs(t, err, common.ErrSessionClosed)
}

func TestAbort_FailureKeepsSessionOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oats := f.food(t, "Oats", nutrients.Vector{Energy: 1600})

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	_, err = s.AddIngredient(ctx, oats, 10)
	require.NoError(t, err)

	f.rm.failDrafts = true
	err = s.Abort(ctx)
	require.ErrorIs(t, err, common.ErrPersistence)
	assert.False(t, s.Closed())
	assert.Equal(t, 1, f.drafts(t))

	f.rm.failDrafts = false
	require.NoError(t, s.Abort(ctx))
	assert.Zero(t, f.drafts(t))
}

func TestCommit_LinkIntegrityFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oats := f.food(t, "Oats", nutrients.Vector{Energy: 1600})

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	_, err = s.AddIngredient(ctx, oats, 10)
	require.NoError(t, err)
	_, err = s.AddIngredient(ctx, oats, 20)
	require.NoError(t, err)

	f.rm.relinkShort = true
	_, err = s.Commit(ctx, "Broken")
	require.ErrorIs(t, err, common.ErrLinkIntegrity)

	assert.True(t, s.Closed())
	assert.Zero(t, f.drafts(t), "session drafts are swept")
	var foods int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM Foods`).Scan(&foods))
	assert.Equal(t, 1, foods, "parent insert is rolled back")
	assert.Equal(t, 1.0, f.counter(t, "foodlog_staging_commits_total", "mode", "add", "status", metrics.StatusLink))
}

func TestMetrics_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.engine.BeginAdd(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Abort(ctx))

	assert.Equal(t, 1.0, f.counter(t, "foodlog_staging_sessions_started_total", "mode", "add"))
	assert.Equal(t, 1.0, f.counter(t, "foodlog_staging_aborts_total"))
}
