package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("/x", http.MethodGet, 200, time.Millisecond)
		m.AuthEvent("login", OutcomeSuccess)
	})
	assert.Nil(t, m.Registry())
}

func TestAuthEventCounts(t *testing.T) {
	m := New()
	m.AuthEvent("login", OutcomeFailure)
	m.AuthEvent("login", OutcomeFailure)
	m.AuthEvent("reset_consume", OutcomeSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("reset_consume", OutcomeSuccess)))
}

func TestObserveHTTPUnmatchedRoute(t *testing.T) {
	m := New()
	m.ObserveHTTP("", http.MethodGet, 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.AuthEvent("login", OutcomeSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clubhouse_auth_events_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
