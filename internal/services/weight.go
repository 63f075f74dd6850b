package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
)

// WeightService records body weight, one entry per date by convention.
type WeightService interface {
	Add(ctx context.Context, w *models.WeightEntry) (int64, error)
	Update(ctx context.Context, w *models.WeightEntry) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.WeightEntry, error)
	List(ctx context.Context) ([]models.WeightEntry, error)
}

type weightService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewWeightService(db *sql.DB, rm repomanager.RepositoryManager) WeightService {
	return &weightService{db: db, rm: rm}
}

func validateWeight(w *models.WeightEntry) error {
	if strings.TrimSpace(w.Date) == "" {
		return fmt.Errorf("%w: weight date must not be blank", common.ErrValidation)
	}
	if w.WeightKg < 0 {
		return fmt.Errorf("%w: weight must not be negative", common.ErrValidation)
	}
	return nil
}

func (s *weightService) Add(ctx context.Context, w *models.WeightEntry) (int64, error) {
	if err := validateWeight(w); err != nil {
		return 0, err
	}
	id, err := s.rm.Weights(s.db).Insert(ctx, w)
	if err != nil {
		return 0, common.WrapPersistence("add weight", err)
	}
	w.ID = id
	return id, nil
}

func (s *weightService) Update(ctx context.Context, w *models.WeightEntry) error {
	if err := validateWeight(w); err != nil {
		return err
	}
	return common.WrapPersistence("update weight", s.rm.Weights(s.db).Update(ctx, w))
}

func (s *weightService) Delete(ctx context.Context, id int64) error {
	return common.WrapPersistence("delete weight", s.rm.Weights(s.db).DeleteByID(ctx, id))
}

func (s *weightService) Get(ctx context.Context, id int64) (*models.WeightEntry, error) {
	w, err := s.rm.Weights(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, common.WrapPersistence("get weight", err)
	}
	return w, nil
}

func (s *weightService) List(ctx context.Context) ([]models.WeightEntry, error) {
	list, err := s.rm.Weights(s.db).List(ctx)
	if err != nil {
		return nil, common.WrapPersistence("list weights", err)
	}
	return list, nil
}
