// ABOUTME: Prometheus metrics for the mock Salesforce server.
// ABOUTME: HTTP request counters and latency plus SObject save outcomes.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfseed_mock_http_requests_total",
			Help: "Total number of HTTP requests served by the mock CRM",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sfseed_mock_http_request_duration_seconds",
			Help:    "Duration of mock CRM HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sfseed_mock_http_active_requests",
			Help: "Number of in-flight mock CRM requests",
		},
	)

	sobjectSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfseed_mock_sobject_saves_total",
			Help: "SObject create attempts by outcome",
		},
		[]string{"sobject", "outcome"},
	)

	tokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sfseed_mock_oauth_tokens_issued_total",
			Help: "Session tokens issued by the mock token endpoint",
		},
	)
)

// Save outcomes
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware labels requests by chi route pattern so record ids do not
// become label values.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeRequests.Inc()
		defer activeRequests.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordSave(sobject, outcome string) {
	sobjectSaves.WithLabelValues(sobject, outcome).Inc()
}

func RecordTokenIssued() {
	tokensIssued.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
