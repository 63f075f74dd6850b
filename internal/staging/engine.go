// Package staging composes, edits and copies recipes through draft recipe
// lines.
//
// An Engine owns at most one open Session. Opening a session closes the
// previous one and, in the same transaction, sweeps every stale draft line
// (FoodId = 0 or CopyFg = 1) left behind by sessions that never finished.
// Every draft line a session writes carries the session id, and every
// operation checks that the session is still the active one, so a superseded
// session fails with common.ErrSessionClosed instead of touching another
// session's drafts.
//
// Modes:
//
//   - Add: start empty; lines are FoodId = 0, CopyFg = 0.
//   - Edit: copy the live lines of a recipe into CopyFg = 1 twins under the
//     same FoodId; commit updates the recipe in place and promotes the twins.
//   - Copy: copy the live lines of a recipe into FoodId = 0 drafts; commit
//     creates a new recipe food.
package staging

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/logging"
	"github.com/dmitrijs2005/foodlog/internal/metrics"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
	"github.com/dmitrijs2005/foodlog/internal/repositories/recipes"
	"github.com/google/uuid"
)

type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
	ModeCopy Mode = "copy"
)

// Engine hands out staging sessions over one database.
type Engine struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	logger  logging.Logger
	metrics *metrics.StagingMetrics

	// newID is replaced in tests.
	newID func() string

	mu     sync.Mutex
	active *Session
}

// NewEngine constructs an Engine. m may be nil.
func NewEngine(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger, m *metrics.StagingMetrics) *Engine {
	return &Engine{db: db, rm: rm, logger: logger, metrics: m, newID: uuid.NewString}
}

// Active returns the open session, or nil.
func (e *Engine) Active() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// BeginAdd opens a session for a new recipe.
func (e *Engine) BeginAdd(ctx context.Context) (*Session, error) {
	return e.begin(ctx, ModeAdd, 0)
}

// BeginEdit opens a session editing the recipe food foodID in place.
func (e *Engine) BeginEdit(ctx context.Context, foodID int64) (*Session, error) {
	return e.begin(ctx, ModeEdit, foodID)
}

// BeginCopy opens a session that will save a copy of the recipe food foodID
// as a new food.
func (e *Engine) BeginCopy(ctx context.Context, foodID int64) (*Session, error) {
	return e.begin(ctx, ModeCopy, foodID)
}

func (e *Engine) begin(ctx context.Context, mode Mode, sourceID int64) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		e.logger.Info(ctx, "staging session superseded", "session_id", e.active.id, "mode", string(e.active.mode))
		e.active.closeLocked()
	}

	s := &Session{engine: e, id: e.newID(), mode: mode, sourceID: sourceID}

	var swept, copied int64
	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		swept, err = e.rm.Recipes(tx).DeleteWhere(ctx, recipes.LineFilter{DraftsOnly: true})
		if err != nil {
			return err
		}
		if mode == ModeAdd {
			return nil
		}

		src, err := e.rm.Foods(tx).GetByID(ctx, sourceID)
		if err != nil {
			return err
		}
		if src.Kind != description.KindRecipe {
			return fmt.Errorf("%w: food %d is not a recipe", common.ErrValidation, sourceID)
		}
		s.defaultName = description.StripRecipeMarker(src.Description)
		s.notes = src.Notes

		spec := recipes.CopySpec{FromFoodID: sourceID, ToFoodID: models.DraftFoodID, SessionID: s.id}
		if mode == ModeEdit {
			spec.ToFoodID = sourceID
			spec.CopyFlag = models.CopyFlagDraft
		}
		copied, err = e.rm.Recipes(tx).CopyLines(ctx, spec)
		return err
	})
	if err != nil {
		return nil, common.WrapPersistence("begin staging", err)
	}

	e.active = s
	e.metrics.SessionStarted(string(mode))
	e.metrics.Swept(swept)
	e.logger.Info(ctx, "staging session started",
		"session_id", s.id, "mode", string(mode), "food_id", sourceID, "rows", copied, "swept", swept)
	return s, nil
}
