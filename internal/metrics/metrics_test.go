package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnlux/internal/metrics"
)

type source struct{ depth, pending int }

func (s source) Depth() int   { return s.depth }
func (s source) Pending() int { return s.pending }

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, source{depth: 3, pending: 1})

	m.StateChanged()
	m.StateChanged()
	m.Applied(nil)
	m.Applied(errors.New("rejected"))
	m.Settled(metrics.OutcomeApplied)
	m.Settled(metrics.OutcomeCancelled)

	out := scrape(t, reg)
	assert.Contains(t, out, "fnlux_history_depth 3")
	assert.Contains(t, out, "fnlux_pending_dispatches 1")
	assert.Contains(t, out, "fnlux_state_changes_total 2")
	assert.Contains(t, out, `fnlux_applies_total{result="ok"} 1`)
	assert.Contains(t, out, `fnlux_applies_total{result="error"} 1`)
	assert.Contains(t, out, `fnlux_dispatches_total{outcome="applied"} 1`)
	assert.Contains(t, out, `fnlux_dispatches_total{outcome="cancelled"} 1`)
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.StateChanged()
		m.Applied(nil)
		m.Settled(metrics.OutcomeRejected)
	})
}
