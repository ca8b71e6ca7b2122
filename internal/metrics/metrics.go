package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoanOperations counts checkout/return attempts by outcome.
	LoanOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_operations_total",
			Help: "Total number of loaner checkouts and returns by result",
		},
		[]string{"operation", "result"},
	)

	// AssetOperations counts asset create/update/delete attempts by outcome.
	AssetOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_operations_total",
			Help: "Total number of asset mutations by result",
		},
		[]string{"operation", "result"},
	)

	// OpenCheckouts is refreshed from the database by the scheduler.
	OpenCheckouts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "loaner_open_checkouts",
			Help: "Number of loaner assets currently checked out",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoanOperations, AssetOperations, OpenCheckouts)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /assets/123/checkout -> /assets/{id}/checkout.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncLoanOperation counts a checkout or return with its result.
func IncLoanOperation(operation, result string) {
	LoanOperations.WithLabelValues(operation, result).Inc()
}

// IncAssetOperation counts an asset create, update or delete with its result.
func IncAssetOperation(operation, result string) {
	AssetOperations.WithLabelValues(operation, result).Inc()
}

// SetOpenCheckouts sets the open checkout gauge.
func SetOpenCheckouts(n int) {
	OpenCheckouts.Set(float64(n))
}
