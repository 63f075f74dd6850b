package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/foodlog/internal/config"
	"github.com/dmitrijs2005/foodlog/internal/logging"
	"github.com/dmitrijs2005/foodlog/internal/metrics"
	"github.com/dmitrijs2005/foodlog/internal/services"
	"github.com/dmitrijs2005/foodlog/internal/staging"
	"github.com/dmitrijs2005/foodlog/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// App wires the opened store to the services used by the commands.
type App struct {
	store  *store.Store
	logger logging.Logger

	foods    services.FoodService
	eaten    services.EatenService
	weights  services.WeightService
	reports  services.ReportService
	importer services.ImportService
	engine   *staging.Engine

	// registry collects the staging counters of this process.
	registry *prometheus.Registry
}

// NewApp opens the database named by cfg and builds the services. Logs go
// to logOut.
func NewApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	st, err := store.InitDatabase(ctx, cfg.DatabaseDSN, cfg.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	logger.Debug(ctx, "database ready", "dsn", cfg.DatabaseDSN)

	reg := prometheus.NewRegistry()
	db, rm := st.DB, st.Repo

	return &App{
		store:    st,
		logger:   logger,
		foods:    services.NewFoodService(db, rm, logger),
		eaten:    services.NewEatenService(db, rm, logger),
		weights:  services.NewWeightService(db, rm),
		reports:  services.NewReportService(db, rm),
		importer: services.NewImportService(db, rm, logger),
		engine:   staging.NewEngine(db, rm, logger, metrics.NewStagingMetrics(reg)),
		registry: reg,
	}, nil
}

// Close aborts a staging session left open and closes the database.
func (a *App) Close(ctx context.Context) error {
	if s := a.engine.Active(); s != nil {
		abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Abort(abortCtx); err != nil {
			a.logger.Warn(ctx, "failed to abort staging session", "session_id", s.ID(), "error", err)
		}
	}
	a.logStagingCounters(ctx)
	return a.store.Close()
}

// WriteMetrics writes the counters gathered so far in the Prometheus text
// exposition format.
func (a *App) WriteMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// logStagingCounters reports non-zero staging counters at debug level.
func (a *App) logStagingCounters(ctx context.Context) {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn(ctx, "failed to gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if v := m.GetCounter().GetValue(); v > 0 {
				args := []any{"metric", mf.GetName(), "value", v}
				for _, lp := range m.GetLabel() {
					args = append(args, lp.GetName(), lp.GetValue())
				}
				a.logger.Debug(ctx, "staging counter", args...)
			}
		}
	}
}
