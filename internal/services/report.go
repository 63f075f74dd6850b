package services

import (
	"context"
	"database/sql"
	"io"

	"github.com/dmitrijs2005/foodlog/internal/common"
	"github.com/dmitrijs2005/foodlog/internal/daily"
	"github.com/dmitrijs2005/foodlog/internal/export"
	"github.com/dmitrijs2005/foodlog/internal/models"
	"github.com/dmitrijs2005/foodlog/internal/repomanager"
)

// ReportService builds day-level views over the consumption log.
type ReportService interface {
	// DailyTotals aggregates one date, or every date when date is empty.
	DailyTotals(ctx context.Context, date string) ([]daily.Total, error)

	// ExportCSV writes daily totals joined with weight entries.
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}

type reportService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, rm repomanager.RepositoryManager) ReportService {
	return &reportService{db: db, rm: rm}
}

func (s *reportService) DailyTotals(ctx context.Context, date string) ([]daily.Total, error) {
	var (
		records []models.Eaten
		err     error
	)
	if date == "" {
		records, err = s.rm.Eaten(s.db).List(ctx)
	} else {
		records, err = s.rm.Eaten(s.db).ListByDate(ctx, date)
	}
	if err != nil {
		return nil, common.WrapPersistence("daily totals", err)
	}
	return daily.Aggregate(records), nil
}

// ExportCSV returns the number of data rows written.
func (s *reportService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	totals, err := s.DailyTotals(ctx, "")
	if err != nil {
		return 0, err
	}
	weights, err := s.rm.Weights(s.db).List(ctx)
	if err != nil {
		return 0, common.WrapPersistence("list weights", err)
	}
	rows := export.Join(totals, weights)
	if err := export.WriteCSV(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
