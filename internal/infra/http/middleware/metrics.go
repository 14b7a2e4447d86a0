package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/calldesk/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_transitions_total",
			Help: "Lead status transitions written through to the store",
		},
		[]string{"status"},
	)

	leadsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Leads kept by spreadsheet imports",
		},
	)

	leadsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_skipped_total",
			Help: "Spreadsheet rows discarded for missing name or contact channel",
		},
	)

	callScripts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_scripts_total",
			Help: "Call script requests by outcome",
		},
		[]string{"outcome"},
	)

	leadsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leads_by_status",
			Help: "Stored leads per status across all users",
		},
		[]string{"status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// unmatchedRoute labels requests no route accepted, so arbitrary paths
// never become label values.
const unmatchedRoute = "unmatched"

// routePattern keeps lead ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// PrometheusRecorder feeds lifecycle counters from the use cases.
type PrometheusRecorder struct{}

func (PrometheusRecorder) RecordTransition(status entity.LeadStatus) {
	leadTransitions.WithLabelValues(string(status)).Inc()
}

func (PrometheusRecorder) RecordImport(imported, skipped int) {
	leadsImported.Add(float64(imported))
	leadsSkipped.Add(float64(skipped))
}

func (PrometheusRecorder) RecordScript(outcome string) {
	callScripts.WithLabelValues(outcome).Inc()
}

// SetLeadsByStatus publishes a fresh snapshot; statuses absent from counts read zero.
func SetLeadsByStatus(counts map[entity.LeadStatus]int) {
	for _, s := range entity.AllStatuses {
		leadsByStatus.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}
