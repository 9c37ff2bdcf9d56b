package metrics

import "github.com/prometheus/client_golang/prometheus"

// Relay Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrelay",
			Name:      "upstream_requests_total",
			Help:      "Total number of vector store requests",
		},
		[]string{"mode", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docrelay",
			Name:      "upstream_request_duration_seconds",
			Help:      "Vector store request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrelay",
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrelay",
			Name:      "generation_requests_total",
			Help:      "Total number of relay-side generation requests",
		},
		[]string{"model", "status"},
	)
)

var relayMetricsRegistered bool

// RegisterRelayMetrics registers Prometheus relay metrics. Must be called once from main.
func RegisterRelayMetrics() {
	if relayMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(ResponseCacheTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	relayMetricsRegistered = true
}
