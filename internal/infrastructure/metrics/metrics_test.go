package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"idempotency-guard/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveOutcome(domain.OutcomeAccepted, time.Millisecond)
	m.ObserveOutcome(domain.OutcomeAccepted, time.Millisecond)
	m.ObserveOutcome(domain.OutcomeConflict, time.Millisecond)
	m.ObserveStoreError("put")

	require.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("accepted")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("conflict")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("put")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `idempotency_outcomes_total{outcome="accepted"} 2`)
}
