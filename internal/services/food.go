// Package services contains the application services of the food log:
// foods, consumption records, body weight, reports and JSON import/export.
// Services compose repositories and run every multi-statement write inside
// one transaction (dbx.WithTx).
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/logging"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
	"github.com/dmitrijs2005/foodlog/internal/repositories/recipes"
)

// FoodService manages the food catalogue.
//
// Contract:
//   - Create/Update reject blank descriptions with common.ErrValidation.
//   - Rename keeps the kind markers of the current description.
//   - Delete removes a recipe's ingredient lines in the same transaction.
//   - ConvertToSolid adds a solid copy of a liquid, scaled by 1/density.
type FoodService interface {
	Create(ctx context.Context, desc string, v nutrients.Vector, notes string) (int64, error)
	Update(ctx context.Context, f *models.Food) error
	Rename(ctx context.Context, id int64, newName string) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Food, error)
	List(ctx context.Context, filter string) ([]models.Food, error)
	Ingredients(ctx context.Context, id int64) ([]models.RecipeLine, error)
	ConvertToSolid(ctx context.Context, id int64, density float64) (int64, error)
}

type foodService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

// NewFoodService constructs a FoodService over db.
func NewFoodService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) FoodService {
	return &foodService{db: db, rm: rm, logger: logger}
}

func validateDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("%w: food description must not be blank", common.ErrValidation)
	}
	return nil
}

func (s *foodService) Create(ctx context.Context, desc string, v nutrients.Vector, notes string) (int64, error) {
	if err := validateDescription(desc); err != nil {
		return 0, err
	}
	id, err := s.rm.Foods(s.db).Insert(ctx, models.NewFood(strings.TrimSpace(desc), v, notes))
	if err != nil {
		return 0, common.WrapPersistence("create food", err)
	}
	s.logger.Debug(ctx, "food created", "food_id", id)
	return id, nil
}

func (s *foodService) Update(ctx context.Context, f *models.Food) error {
	if err := validateDescription(f.Description); err != nil {
		return err
	}
	f.Kind = description.KindOf(f.Description)
	return common.WrapPersistence("update food", s.rm.Foods(s.db).Update(ctx, f))
}

func (s *foodService) Rename(ctx context.Context, id int64, newName string) error {
	if err := validateDescription(newName); err != nil {
		return err
	}
	return common.WrapPersistence("rename food", dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Foods(tx)
		f, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		f.Description = description.Rebase(newName, f.Description)
		f.Kind = description.KindOf(f.Description)
		return repo.Update(ctx, f)
	}))
}

func (s *foodService) Delete(ctx context.Context, id int64) error {
	var lines int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		f, err := s.rm.Foods(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if f.Kind == description.KindRecipe {
			lines, err = s.rm.Recipes(tx).DeleteWhere(ctx, recipes.LineFilter{FoodID: &id})
			if err != nil {
				return err
			}
		}
		return s.rm.Foods(tx).DeleteByID(ctx, id)
	})
	if err != nil {
		return common.WrapPersistence("delete food", err)
	}
	s.logger.Info(ctx, "food deleted", "food_id", id, "rows", lines)
	return nil
}

func (s *foodService) Get(ctx context.Context, id int64) (*models.Food, error) {
	f, err := s.rm.Foods(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, common.WrapPersistence("get food", err)
	}
	return f, nil
}

func (s *foodService) List(ctx context.Context, filter string) ([]models.Food, error) {
	list, err := s.rm.Foods(s.db).List(ctx, strings.TrimSpace(filter))
	if err != nil {
		return nil, common.WrapPersistence("list foods", err)
	}
	return list, nil
}

// Ingredients returns the live lines of a recipe food.
func (s *foodService) Ingredients(ctx context.Context, id int64) ([]models.RecipeLine, error) {
	lines, err := s.rm.Recipes(s.db).ListByFood(ctx, id)
	if err != nil {
		return nil, common.WrapPersistence("list ingredients", err)
	}
	return lines, nil
}

func (s *foodService) ConvertToSolid(ctx context.Context, id int64, density float64) (int64, error) {
	if density <= 0 {
		return 0, fmt.Errorf("%w: density must be positive", common.ErrValidation)
	}

	var newID int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Foods(tx)
		src, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if src.Kind != description.KindLiquid {
			return fmt.Errorf("%w: food %d is not a liquid", common.ErrValidation, id)
		}
		solid := models.NewFood(description.ToSolid(src.Description, density), src.Nutrients.Scale(1/density), src.Notes)
		newID, err = repo.Insert(ctx, solid)
		return err
	})
	if err != nil {
		return 0, common.WrapPersistence("convert food", err)
	}
	s.logger.Info(ctx, "liquid converted to solid", "food_id", id, "new_food_id", newID, "density", density)
	return newID, nil
}
