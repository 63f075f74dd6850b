package recipes

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

// ErrEmptyFilter guards against an unconditional DELETE.
var ErrEmptyFilter = errors.New("recipe line filter has no conditions")

var (
	payloadColumns = append([]string{"Amount", "FoodDescription"}, nutrients.Columns()...)
	writeColumns   = append([]string{"FoodId", "CopyFg", "SessionId"}, payloadColumns...)
	selectColumns  = "RecipeId, " + strings.Join(writeColumns, ", ")
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLine(s scanner) (*models.RecipeLine, error) {
	l := &models.RecipeLine{}
	dest := append([]any{&l.ID, &l.FoodID, &l.CopyFlag, &l.SessionID, &l.Amount, &l.Description},
		l.Nutrients.ScanTargets()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, l *models.RecipeLine) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO Recipe (%s) VALUES (%s)`,
		strings.Join(writeColumns, ", "), dbx.Placeholders(len(writeColumns)))
	args := append([]any{l.FoodID, l.CopyFlag, l.SessionID, l.Amount, l.Description}, l.Nutrients.Args()...)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe line: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, l *models.RecipeLine) error {
	query := fmt.Sprintf(`UPDATE Recipe SET %s WHERE RecipeId = ?`, dbx.SetList(payloadColumns))
	args := append([]any{l.Amount, l.Description}, l.Nutrients.Args()...)
	res, err := r.db.ExecContext(ctx, query, append(args, l.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update recipe line: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, l.ID)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.RecipeLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM Recipe WHERE RecipeId = ?`, selectColumns)
	l, err := scanLine(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recipe line %d: %w", id, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Recipe WHERE RecipeId = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe line: %w", err)
	}
	if _, err := dbx.ExpectAffected(res); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (r *SQLiteRepository) DeleteWhere(ctx context.Context, f LineFilter) (int64, error) {
	var (
		conds []string
		args  []any
	)
	if f.FoodID != nil {
		conds = append(conds, "FoodId = ?")
		args = append(args, *f.FoodID)
	}
	if f.CopyFlag != nil {
		conds = append(conds, "CopyFg = ?")
		args = append(args, *f.CopyFlag)
	}
	if f.SessionID != nil {
		conds = append(conds, "SessionId = ?")
		args = append(args, *f.SessionID)
	}
	if f.DraftsOnly {
		conds = append(conds, "(FoodId = 0 OR CopyFg = 1)")
	}
	if len(conds) == 0 {
		return 0, ErrEmptyFilter
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM Recipe WHERE `+strings.Join(conds, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete recipe lines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CopyLines(ctx context.Context, spec CopySpec) (int64, error) {
	payload := strings.Join(payloadColumns, ", ")
	query := fmt.Sprintf(`INSERT INTO Recipe (FoodId, CopyFg, SessionId, %s)
		SELECT ?, ?, ?, %s FROM Recipe WHERE FoodId = ? AND CopyFg = 0 ORDER BY RecipeId`, payload, payload)
	res, err := r.db.ExecContext(ctx, query, spec.ToFoodID, spec.CopyFlag, spec.SessionID, spec.FromFoodID)
	if err != nil {
		return 0, fmt.Errorf("failed to copy recipe lines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Relink(ctx context.Context, sessionID string, foodID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE Recipe SET FoodId = ?, SessionId = '' WHERE FoodId = 0 AND SessionId = ?`, foodID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to relink recipe lines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Promote(ctx context.Context, sessionID string, foodID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE Recipe SET CopyFg = 0, SessionId = '' WHERE FoodId = ? AND CopyFg = 1 AND SessionId = ?`, foodID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to promote recipe lines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListByFood(ctx context.Context, foodID int64) ([]models.RecipeLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM Recipe WHERE FoodId = ? AND CopyFg = 0 ORDER BY RecipeId`, selectColumns)
	return r.query(ctx, query, foodID)
}

func (r *SQLiteRepository) ListSession(ctx context.Context, sessionID string) ([]models.RecipeLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM Recipe WHERE SessionId = ? ORDER BY RecipeId`, selectColumns)
	return r.query(ctx, query, sessionID)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.RecipeLine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select recipe lines: %w", err)
	}
	defer rows.Close()

	var result []models.RecipeLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return fmt.Errorf("recipe line %d: %w", id, common.ErrorNotFound)
	}
	return err
}
