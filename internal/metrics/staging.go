// Package metrics holds the Prometheus instruments of the recipe staging
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "foodlog"
	subsystem = "staging"
)

// Commit outcomes used as the status label.
const (
	StatusOK         = "ok"
	StatusValidation = "validation"
	StatusLink       = "link_integrity"
	StatusError      = "error"
)

// StagingMetrics counts staging session lifecycle events. A nil
// *StagingMetrics is valid and records nothing.
type StagingMetrics struct {
	sessionsStarted *prometheus.CounterVec
	commits         *prometheus.CounterVec
	aborts          prometheus.Counter
	sweptRows       prometheus.Counter
}

// NewStagingMetrics registers the counters with reg. Pass
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewStagingMetrics(reg prometheus.Registerer) *StagingMetrics {
	f := promauto.With(reg)
	return &StagingMetrics{
		// Labels: mode (add, edit, copy)
		sessionsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_started_total",
			Help:      "Staging sessions opened",
		}, []string{"mode"}),
		// Labels: mode, status (ok, validation, link_integrity, error)
		commits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commits_total",
			Help:      "Staging commit attempts by outcome",
		}, []string{"mode", "status"}),
		aborts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "aborts_total",
			Help:      "Staging sessions aborted",
		}),
		sweptRows: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "swept_rows_total",
			Help:      "Stale draft recipe lines removed",
		}),
	}
}

func (m *StagingMetrics) SessionStarted(mode string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(mode).Inc()
}

func (m *StagingMetrics) Commit(mode, status string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(mode, status).Inc()
}

func (m *StagingMetrics) Abort() {
	if m == nil {
		return
	}
	m.aborts.Inc()
}

func (m *StagingMetrics) Swept(rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.sweptRows.Add(float64(rows))
}
