package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	operations  *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fridge_membership_operations_total",
				Help: "Membership operations by outcome",
			},
			[]string{"operation", "result"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fridge_store_errors_total",
				Help: "Failed key-value store calls",
			},
			[]string{"op"},
		),
		httpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"path", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}
	reg.MustRegister(m.operations, m.storeErrors, m.httpTotal, m.httpLatency)
	return m
}

func (m *Metrics) ObserveOperation(operation, result string) {
	m.operations.WithLabelValues(operation, result).Inc()
}

// ObserveStoreError matches documents.ErrorObserver.
func (m *Metrics) ObserveStoreError(op, _ string, _ error) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpTotal.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
		m.httpLatency.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
