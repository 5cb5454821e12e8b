package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UpstreamRequests counts calls to upstream vendor APIs by outcome
var UpstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gamehub_upstream_requests_total",
		Help: "Upstream vendor API requests",
	},
	[]string{"platform", "operation", "status"},
)

// UpstreamDuration observes upstream vendor request latency in seconds
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gamehub_upstream_request_seconds",
		Help:    "Upstream vendor API request duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"platform", "operation"},
)

// StatsRefreshes counts aggregate stats recomputations by trigger source
var StatsRefreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gamehub_stats_refreshes_total",
		Help: "Aggregate stats refresh operations",
	},
	[]string{"source", "status"},
)

// ObserveUpstream records one upstream call
func ObserveUpstream(platform, operation string, statusCode int, started time.Time) {
	UpstreamRequests.WithLabelValues(platform, operation, strconv.Itoa(statusCode)).Inc()
	UpstreamDuration.WithLabelValues(platform, operation).Observe(time.Since(started).Seconds())
}
