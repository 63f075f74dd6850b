package weights

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/timex"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, w *models.WeightEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO Weight (DateWeight, Weight, Comments) VALUES (?, ?, ?)`, w.Date, w.WeightKg, w.Comments)
	if err != nil {
		return 0, fmt.Errorf("failed to insert weight: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, w *models.WeightEntry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE Weight SET DateWeight = ?, Weight = ?, Comments = ? WHERE WeightId = ?`,
		w.Date, w.WeightKg, w.Comments, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update weight: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, w.ID)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Weight WHERE WeightId = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete weight: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.WeightEntry, error) {
	w := &models.WeightEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT WeightId, DateWeight, Weight, Comments FROM Weight WHERE WeightId = ?`, id).
		Scan(&w.ID, &w.Date, &w.WeightKg, &w.Comments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("weight %d: %w", id, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return w, nil
}

// List sorts in Go because DateWeight is stored as d-MMM-yy text.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.WeightEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT WeightId, DateWeight, Weight, Comments FROM Weight`)
	if err != nil {
		return nil, fmt.Errorf("failed to select weights: %w", err)
	}
	defer rows.Close()

	var result []models.WeightEntry
	for rows.Next() {
		var w models.WeightEntry
		if err := rows.Scan(&w.ID, &w.Date, &w.WeightKg, &w.Comments); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		di, dj := timex.DateSortKey(result[i].Date), timex.DateSortKey(result[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return fmt.Errorf("weight %d: %w", id, common.ErrorNotFound)
	}
	return err
}
