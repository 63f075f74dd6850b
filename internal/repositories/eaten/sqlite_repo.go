package eaten

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
)

var (
	writeColumns  = append([]string{"DateEaten", "TimeEaten", "EatenTs", "AmountEaten", "FoodDescription"}, nutrients.Columns()...)
	selectColumns = "EatenId, " + strings.Join(writeColumns, ", ")
)

const newestFirst = ` ORDER BY EatenTs DESC, EatenId DESC`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func writeArgs(e *models.Eaten) []any {
	return append([]any{e.DateEaten, e.TimeEaten, e.EatenMinutes, e.Amount, e.Description}, e.Nutrients.Args()...)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEaten(s scanner) (*models.Eaten, error) {
	e := &models.Eaten{}
	dest := append([]any{&e.ID, &e.DateEaten, &e.TimeEaten, &e.EatenMinutes, &e.Amount, &e.Description},
		e.Nutrients.ScanTargets()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Eaten) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO Eaten (%s) VALUES (%s)`,
		strings.Join(writeColumns, ", "), dbx.Placeholders(len(writeColumns)))
	res, err := r.db.ExecContext(ctx, query, writeArgs(e)...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert eaten record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e *models.Eaten) error {
	query := fmt.Sprintf(`UPDATE Eaten SET %s WHERE EatenId = ?`, dbx.SetList(writeColumns))
	res, err := r.db.ExecContext(ctx, query, append(writeArgs(e), e.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update eaten record: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, e.ID)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Eaten WHERE EatenId = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete eaten record: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Eaten, error) {
	query := fmt.Sprintf(`SELECT %s FROM Eaten WHERE EatenId = ?`, selectColumns)
	e, err := scanEaten(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("eaten record %d: %w", id, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Eaten, error) {
	return r.query(ctx, fmt.Sprintf(`SELECT %s FROM Eaten`, selectColumns)+newestFirst)
}

func (r *SQLiteRepository) ListByDate(ctx context.Context, date string) ([]models.Eaten, error) {
	return r.query(ctx, fmt.Sprintf(`SELECT %s FROM Eaten WHERE DateEaten = ?`, selectColumns)+newestFirst, date)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Eaten, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select eaten records: %w", err)
	}
	defer rows.Close()

	var result []models.Eaten
	for rows.Next() {
		e, err := scanEaten(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return fmt.Errorf("eaten record %d: %w", id, common.ErrorNotFound)
	}
	return err
}
