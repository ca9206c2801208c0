package pipeline

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal tracks completed dispatch attempts by outcome
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_requests_total",
			Help: "Total dispatched requests by operation, method and status code",
		},
		[]string{"operation", "method", "status"},
	)

	// requestDuration tracks time from dispatch to fully read response
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courier_request_duration_seconds",
			Help:    "Request duration from dispatch to fully read response",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "method"},
	)

	// retriesTotal tracks re-run attempts granted by a retry policy
	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_retries_total",
			Help: "Total retry attempts by operation",
		},
		[]string{"operation"},
	)

	// retryDelay tracks the delay a retry policy asked for
	retryDelay = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courier_retry_delay_seconds",
			Help:    "Delay applied before each retry attempt",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)
)

// RecordRequest records one dispatch attempt. A status of zero means no
// response was received.
func RecordRequest(operation, method string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(operation, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(operation, method).Observe(duration.Seconds())
}

// RecordRetry records one granted retry and the delay preceding it.
func RecordRetry(operation string, delay time.Duration) {
	retriesTotal.WithLabelValues(operation).Inc()
	retryDelay.WithLabelValues(operation).Observe(delay.Seconds())
}
