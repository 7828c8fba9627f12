package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded on push_messages_total.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	messages        *prometheus.CounterVec
	pruned          prometheus.Counter
	pruneFailures   prometheus.Counter
	batches         *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	dispatches      *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "push_messages_total",
				Help: "Push messages by outcome",
			},
			[]string{"outcome"},
		),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "push_devices_pruned_total",
			Help: "Devices removed after the gateway reported them unregistered",
		}),
		pruneFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "push_prune_failures_total",
			Help: "Unregistered devices that could not be removed",
		}),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "push_batches_total",
				Help: "Push gateway batches by result",
			},
			[]string{"result"},
		),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "push_batch_duration_seconds",
			Help:    "Round-trip time of one push gateway batch",
			Buckets: prometheus.DefBuckets,
		}),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "push_dispatches_total",
				Help: "Notification fan-outs by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.messages,
		m.pruned,
		m.pruneFailures,
		m.batches,
		m.batchDuration,
		m.dispatches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.requestTotal.WithLabelValues(labels...).Inc()
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Messages(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.messages.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) Pruned() {
	if m == nil {
		return
	}
	m.pruned.Inc()
}

func (m *Metrics) PruneFailed() {
	if m == nil {
		return
	}
	m.pruneFailures.Inc()
}

// Batch records one gateway round trip and whether it delivered tickets.
func (m *Metrics) Batch(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
	m.batches.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Dispatch(err error) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
