package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStagingMetrics_Counts(t *testing.T) {
	m := NewStagingMetrics(prometheus.NewRegistry())

	m.SessionStarted("add")
	m.SessionStarted("add")
	m.SessionStarted("edit")
	m.Commit("add", StatusOK)
	m.Commit("add", StatusValidation)
	m.Abort()
	m.Swept(3)
	m.Swept(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("edit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("add", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("add", StatusValidation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aborts))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweptRows))
}

func TestStagingMetrics_NilIsNoop(t *testing.T) {
	var m *StagingMetrics
	m.SessionStarted("add")
	m.Commit("add", StatusOK)
	m.Abort()
	m.Swept(1)
}

func TestStagingMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStagingMetrics(reg)
	m.Abort()

	n, err := testutil.GatherAndCount(reg, "foodlog_staging_aborts_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
