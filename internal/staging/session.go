package staging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/metrics"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/repositories/recipes"
)

// Session is one recipe composition. It is closed by Commit, Abort, a link
// integrity failure, or by the engine opening a newer session.
type Session struct {
	engine *Engine

	id          string
	mode        Mode
	sourceID    int64
	defaultName string
	notes       string

	closed bool
}

// Totals summarises the working set.
type Totals struct {
	Lines     int
	Weight    float64 // grams
	Nutrients nutrients.Vector
}

func (s *Session) ID() string { return s.id }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) SourceID() int64 { return s.sourceID }

// DefaultName is the source recipe name for Edit and Copy sessions.
func (s *Session) DefaultName() string { return s.defaultName }

func (s *Session) Closed() bool {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return s.closed
}

// acquire locks the engine for the duration of one operation.
func (s *Session) acquire() (func(), error) {
	s.engine.mu.Lock()
	if s.closed || s.engine.active != s {
		s.engine.mu.Unlock()
		return nil, fmt.Errorf("session %s: %w", s.id, common.ErrSessionClosed)
	}
	return s.engine.mu.Unlock, nil
}

func (s *Session) closeLocked() {
	s.closed = true
	if s.engine.active == s {
		s.engine.active = nil
	}
}

// draftLine returns the FoodId/CopyFg pair new lines of this session use.
func (s *Session) draftLine() (int64, int) {
	if s.mode == ModeEdit {
		return s.sourceID, models.CopyFlagDraft
	}
	return models.DraftFoodID, models.CopyFlagLive
}

// AddIngredient adds amount grams of a non-liquid food to the working set.
func (s *Session) AddIngredient(ctx context.Context, foodID int64, amount float64) (*models.RecipeLine, error) {
	unlock, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if amount <= 0 {
		return nil, fmt.Errorf("%w: ingredient amount must be positive", common.ErrValidation)
	}
	if s.mode == ModeEdit && foodID == s.sourceID {
		return nil, fmt.Errorf("%w: a recipe cannot contain itself", common.ErrValidation)
	}

	e := s.engine
	food, err := e.rm.Foods(e.db).GetByID(ctx, foodID)
	if err != nil {
		return nil, common.WrapPersistence("get ingredient", err)
	}
	if food.Kind == description.KindLiquid {
		return nil, fmt.Errorf("%w: %q is a liquid; convert it to a solid before using it in a recipe",
			common.ErrValidation, food.Name())
	}

	parent, flag := s.draftLine()
	line := &models.RecipeLine{
		FoodID:      parent,
		CopyFlag:    flag,
		SessionID:   s.id,
		Amount:      amount,
		Description: food.Description,
		Nutrients:   food.Nutrients.Scale(amount / 100),
	}
	line.ID, err = e.rm.Recipes(e.db).Insert(ctx, line)
	if err != nil {
		return nil, common.WrapPersistence("add ingredient", err)
	}
	return line, nil
}

// UpdateIngredient changes the amount of a working-set line, rescaling its
// nutrients by new/old.
func (s *Session) UpdateIngredient(ctx context.Context, lineID int64, amount float64) (*models.RecipeLine, error) {
	unlock, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var line *models.RecipeLine
	err = dbx.WithTx(ctx, s.engine.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.engine.rm.Recipes(tx)
		l, err := s.ownLine(ctx, repo, lineID)
		if err != nil {
			return err
		}
		if err := l.Rescale(amount); err != nil {
			return err
		}
		line = l
		return repo.Update(ctx, l)
	})
	if err != nil {
		return nil, common.WrapPersistence("update ingredient", err)
	}
	return line, nil
}

// RemoveIngredient deletes a working-set line.
func (s *Session) RemoveIngredient(ctx context.Context, lineID int64) error {
	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	err = dbx.WithTx(ctx, s.engine.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.engine.rm.Recipes(tx)
		if _, err := s.ownLine(ctx, repo, lineID); err != nil {
			return err
		}
		return repo.DeleteByID(ctx, lineID)
	})
	return common.WrapPersistence("remove ingredient", err)
}

func (s *Session) ownLine(ctx context.Context, repo recipes.Repository, lineID int64) (*models.RecipeLine, error) {
	l, err := repo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if l.SessionID != s.id {
		return nil, fmt.Errorf("recipe line %d is not part of this recipe: %w", lineID, common.ErrorNotFound)
	}
	return l, nil
}

// Lines returns the working set in insertion order.
func (s *Session) Lines(ctx context.Context) ([]models.RecipeLine, error) {
	unlock, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	lines, err := s.engine.rm.Recipes(s.engine.db).ListSession(ctx, s.id)
	if err != nil {
		return nil, common.WrapPersistence("list ingredients", err)
	}
	return lines, nil
}

// Totals returns the running weight and the unrounded nutrient sum.
func (s *Session) Totals(ctx context.Context) (Totals, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return Totals{}, err
	}
	return totalsOf(lines), nil
}

func totalsOf(lines []models.RecipeLine) Totals {
	vs := make([]nutrients.Vector, len(lines))
	for i, l := range lines {
		vs[i] = l.Nutrients
	}
	return Totals{Lines: len(lines), Weight: models.TotalAmount(lines), Nutrients: nutrients.Sum(vs...)}
}

// Commit saves the working set as a recipe food named name and closes the
// session. It returns the recipe's food id.
//
// Validation failures and persistence failures leave the session open and
// the database unchanged. A link integrity failure rolls back, sweeps the
// session's drafts and closes the session.
func (s *Session) Commit(ctx context.Context, name string) (int64, error) {
	unlock, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer unlock()

	e := s.engine
	name = strings.TrimSpace(name)
	if name == "" {
		e.metrics.Commit(string(s.mode), metrics.StatusValidation)
		return 0, fmt.Errorf("%w: recipe name must not be blank", common.ErrValidation)
	}

	var foodID int64
	err = dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		lines, err := e.rm.Recipes(tx).ListSession(ctx, s.id)
		if err != nil {
			return err
		}
		t := totalsOf(lines)
		if t.Weight <= 0 {
			return fmt.Errorf("%w: recipe has no ingredient weight", common.ErrValidation)
		}

		desc := description.RecipeDescription(name, t.Weight)
		per100 := t.Nutrients.Scale(100 / t.Weight)
		if s.mode == ModeEdit {
			foodID, err = s.commitEdit(ctx, tx, desc, per100, len(lines))
		} else {
			foodID, err = s.commitNew(ctx, tx, desc, per100, len(lines))
		}
		return err
	})

	switch {
	case err == nil:
		s.closeLocked()
		e.metrics.Commit(string(s.mode), metrics.StatusOK)
		e.logger.Info(ctx, "recipe committed", "session_id", s.id, "mode", string(s.mode), "food_id", foodID)
		return foodID, nil

	case errors.Is(err, common.ErrValidation):
		e.metrics.Commit(string(s.mode), metrics.StatusValidation)
		return 0, err

	case errors.Is(err, common.ErrLinkIntegrity):
		sid := s.id
		n, sweepErr := e.rm.Recipes(e.db).DeleteWhere(ctx, recipes.LineFilter{SessionID: &sid})
		if sweepErr != nil {
			e.logger.Warn(ctx, "draft sweep after failed link", "session_id", s.id, "error", sweepErr)
		}
		e.metrics.Swept(n)
		s.closeLocked()
		e.metrics.Commit(string(s.mode), metrics.StatusLink)
		e.logger.Error(ctx, "recipe lines could not be linked", "session_id", s.id, "mode", string(s.mode), "error", err)
		return 0, err

	default:
		e.metrics.Commit(string(s.mode), metrics.StatusError)
		return 0, common.WrapPersistence("commit recipe", err)
	}
}

func (s *Session) commitNew(ctx context.Context, tx dbx.DBTX, desc string, v nutrients.Vector, lines int) (int64, error) {
	var notes string
	if s.mode == ModeCopy {
		notes = s.notes
	}
	id, err := s.engine.rm.Foods(tx).Insert(ctx, models.NewFood(desc, v, notes))
	if err != nil {
		return 0, err
	}
	n, err := s.engine.rm.Recipes(tx).Relink(ctx, s.id, id)
	if err != nil {
		return 0, err
	}
	if n != int64(lines) {
		return 0, fmt.Errorf("%w: relinked %d of %d lines", common.ErrLinkIntegrity, n, lines)
	}
	return id, nil
}

func (s *Session) commitEdit(ctx context.Context, tx dbx.DBTX, desc string, v nutrients.Vector, lines int) (int64, error) {
	foods := s.engine.rm.Foods(tx)
	parent, err := foods.GetByID(ctx, s.sourceID)
	if err != nil {
		return 0, err
	}
	parent.Description = desc
	parent.Kind = description.KindOf(desc)
	parent.Nutrients = v
	if err := foods.Update(ctx, parent); err != nil {
		return 0, err
	}

	repo := s.engine.rm.Recipes(tx)
	live := models.CopyFlagLive
	if _, err := repo.DeleteWhere(ctx, recipes.LineFilter{FoodID: &parent.ID, CopyFlag: &live}); err != nil {
		return 0, err
	}
	n, err := repo.Promote(ctx, s.id, parent.ID)
	if err != nil {
		return 0, err
	}
	if n != int64(lines) {
		return 0, fmt.Errorf("%w: promoted %d of %d lines", common.ErrLinkIntegrity, n, lines)
	}
	return parent.ID, nil
}

// Abort drops every draft line and closes the session. If the delete fails
// the session stays open so Abort can be retried.
func (s *Session) Abort(ctx context.Context) error {
	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	e := s.engine
	var n int64
	err = dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		n, err = e.rm.Recipes(tx).DeleteWhere(ctx, recipes.LineFilter{DraftsOnly: true})
		return err
	})
	if err != nil {
		return common.WrapPersistence("abort recipe", err)
	}

	s.closeLocked()
	e.metrics.Abort()
	e.metrics.Swept(n)
	e.logger.Info(ctx, "staging session aborted", "session_id", s.id, "mode", string(s.mode), "rows", n)
	return nil
}
