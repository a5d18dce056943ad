package metrics

import "github.com/prometheus/client_golang/prometheus"

// RPC metrics
var (
	RPCRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grpc_requests_total",
		Help:      "gRPC requests by method and status code",
	}, []string{"method", "code"})
	RPCLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "grpc_latency_seconds",
		Help:      "gRPC handler latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// RecordRPC records one handled gRPC call.
func RecordRPC(method, code string, durationSeconds float64) {
	RPCRequestsTotal.WithLabelValues(method, code).Inc()
	RPCLatency.WithLabelValues(method).Observe(durationSeconds)
}
