package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/logging"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
)

// EatenService logs and edits consumption records. Records are snapshots of
// the food taken at logging time.
type EatenService interface {
	Log(ctx context.Context, foodID int64, amount float64, date, clock string) (*models.Eaten, error)

	// Update rescales a record by new/old amount. A stored amount of 0
	// yields common.ErrDivisionByZero and leaves the record untouched.
	Update(ctx context.Context, id int64, amount float64, date, clock string) (*models.Eaten, error)

	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Eaten, error)
	List(ctx context.Context) ([]models.Eaten, error)
	ListByDate(ctx context.Context, date string) ([]models.Eaten, error)
}

type eatenService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func NewEatenService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) EatenService {
	return &eatenService{db: db, rm: rm, logger: logger}
}

func (s *eatenService) Log(ctx context.Context, foodID int64, amount float64, date, clock string) (*models.Eaten, error) {
	food, err := s.rm.Foods(s.db).GetByID(ctx, foodID)
	if err != nil {
		return nil, common.WrapPersistence("get food", err)
	}
	e, err := models.NewEaten(food, amount, date, clock)
	if err != nil {
		return nil, err
	}
	e.ID, err = s.rm.Eaten(s.db).Insert(ctx, e)
	if err != nil {
		return nil, common.WrapPersistence("log eaten", err)
	}
	s.logger.Debug(ctx, "eaten logged", "eaten_id", e.ID, "food_id", foodID)
	return e, nil
}

func (s *eatenService) Update(ctx context.Context, id int64, amount float64, date, clock string) (*models.Eaten, error) {
	var updated *models.Eaten
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Eaten(tx)
		e, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := e.Rescale(amount, date, clock); err != nil {
			return err
		}
		updated = e
		return repo.Update(ctx, e)
	})
	if err != nil {
		return nil, common.WrapPersistence("update eaten", err)
	}
	return updated, nil
}

func (s *eatenService) Delete(ctx context.Context, id int64) error {
	return common.WrapPersistence("delete eaten", s.rm.Eaten(s.db).DeleteByID(ctx, id))
}

func (s *eatenService) Get(ctx context.Context, id int64) (*models.Eaten, error) {
	e, err := s.rm.Eaten(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, common.WrapPersistence("get eaten", err)
	}
	return e, nil
}

func (s *eatenService) List(ctx context.Context) ([]models.Eaten, error) {
	list, err := s.rm.Eaten(s.db).List(ctx)
	if err != nil {
		return nil, common.WrapPersistence("list eaten", err)
	}
	return list, nil
}

func (s *eatenService) ListByDate(ctx context.Context, date string) ([]models.Eaten, error) {
	list, err := s.rm.Eaten(s.db).ListByDate(ctx, date)
	if err != nil {
		return nil, common.WrapPersistence("list eaten", err)
	}
	return list, nil
}
