package foods

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/dbx"
	"github.com/dmitrijs2005/foodlog/internal/description"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/nutrients"
)

var (
	selectColumns = "FoodId, FoodDescription, Kind, Notes, " + nutrients.ColumnList()
	writeColumns  = append([]string{"FoodDescription", "Kind", "Notes"}, nutrients.Columns()...)
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func writeArgs(f *models.Food) []any {
	kind := f.Kind
	if kind == "" {
		kind = description.KindOf(f.Description)
	}
	return append([]any{f.Description, string(kind), f.Notes}, f.Nutrients.Args()...)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFood(s scanner) (*models.Food, error) {
	f := &models.Food{}
	var kind string
	dest := append([]any{&f.ID, &f.Description, &kind, &f.Notes}, f.Nutrients.ScanTargets()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	f.Kind = description.Kind(kind)
	return f, nil
}

// Insert adds a food row and returns the generated FoodId.
func (r *SQLiteRepository) Insert(ctx context.Context, f *models.Food) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO Foods (%s) VALUES (%s)`,
		strings.Join(writeColumns, ", "), dbx.Placeholders(len(writeColumns)))
	res, err := r.db.ExecContext(ctx, query, writeArgs(f)...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert food: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// Update rewrites the food identified by f.ID.
func (r *SQLiteRepository) Update(ctx context.Context, f *models.Food) error {
	query := fmt.Sprintf(`UPDATE Foods SET %s WHERE FoodId = ?`, dbx.SetList(writeColumns))
	res, err := r.db.ExecContext(ctx, query, append(writeArgs(f), f.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update food: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, f.ID)
	}
	return nil
}

// DeleteByID removes a food. Recipe lines are not touched here.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Foods WHERE FoodId = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	query := fmt.Sprintf(`SELECT %s FROM Foods WHERE FoodId = ?`, selectColumns)
	f, err := scanFood(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("food %d: %w", id, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter string) ([]models.Food, error) {
	query := fmt.Sprintf(`SELECT %s FROM Foods WHERE FoodDescription LIKE ?
		ORDER BY FoodDescription COLLATE NOCASE, FoodId`, selectColumns)
	rows, err := r.db.QueryContext(ctx, query, "%"+filter+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to select foods: %w", err)
	}
	defer rows.Close()

	var result []models.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return fmt.Errorf("food %d: %w", id, common.ErrorNotFound)
	}
	return err
}
