package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request processing time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP errors",
		},
		[]string{"method", "endpoint", "status"},
	)

	activeSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "push_active_subscriptions",
			Help: "Number of open push subscriptions (SSE and WebSocket)",
		},
	)

	streamDeltasTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_deltas_total",
			Help: "Total number of stream state deltas broadcast to subscribers",
		},
	)

	pollCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poll_cycles_total",
			Help: "Total number of upstream poll cycles",
		},
	)

	roomsCleanedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_cleaned_total",
			Help: "Total number of idle rooms reclaimed by the cleanup job",
		},
	)
)

// RecordHTTPMetrics records metrics for a single HTTP request.
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())

	if status >= 400 {
		httpErrorsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	}
}

func IncrementActiveSubscriptions() {
	activeSubscriptions.Inc()
}

func DecrementActiveSubscriptions() {
	activeSubscriptions.Dec()
}

func AddStreamDeltas(n int) {
	streamDeltasTotal.Add(float64(n))
}

func IncrementPollCycles() {
	pollCyclesTotal.Inc()
}

func AddRoomsCleaned(n int) {
	roomsCleanedTotal.Add(float64(n))
}
