package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Messages(OutcomeAccepted, 3)
		m.Pruned()
		m.Batch(time.Second, nil)
		m.PruneFailed()
		m.Dispatch(nil)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Messages(OutcomeAccepted, 3)
	m.Messages(OutcomeRejected, 1)
	m.Messages(OutcomeSkipped, 0)
	m.Pruned()
	m.Batch(10*time.Millisecond, nil)
	m.Batch(time.Millisecond, errors.New("timeout"))
	m.PruneFailed()
	m.Dispatch(nil)
	m.Dispatch(errors.New("x"))

	body := scrape(t, m)
	assert.Contains(t, body, `push_messages_total{outcome="accepted"} 3`)
	assert.Contains(t, body, `push_messages_total{outcome="rejected"} 1`)
	assert.NotContains(t, body, `outcome="skipped"`)
	assert.Contains(t, body, "push_devices_pruned_total 1")
	assert.Contains(t, body, "push_batch_duration_seconds_count 2")
	assert.Contains(t, body, `push_batches_total{result="error"} 1`)
	assert.Contains(t, body, "push_prune_failures_total 1")
	assert.Contains(t, body, `push_dispatches_total{result="error"} 1`)
	assert.Contains(t, body, `push_dispatches_total{result="ok"} 1`)
}

func TestMetrics_MiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/notifications/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/notifications/abc", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/api/notifications/{id}",status="404"} 1`)
}
