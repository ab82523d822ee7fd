package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UseCaseTotal counts use-case executions by operation and outcome (ok or the error code).
	UseCaseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usecase_results_total",
			Help: "Total number of use-case executions by outcome",
		},
		[]string{"op", "outcome"},
	)
)

var (
	uuidPathSegment = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	initOnce        sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UseCaseTotal)
	})
}

// NormalizePath reduces cardinality by replacing UUID path segments with :id.
// E.g. /api/tasks/6708137f-05b8-457a-8523-24055b98a42e/update -> /api/tasks/:id/update.
func NormalizePath(path string) string {
	return uuidPathSegment.ReplaceAllString(path, "/:id$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordUseCase counts one use-case execution. An empty outcome is recorded as "ok".
func RecordUseCase(op, outcome string) {
	if outcome == "" {
		outcome = "ok"
	}
	UseCaseTotal.WithLabelValues(op, outcome).Inc()
}
