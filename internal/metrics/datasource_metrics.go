package metrics

import "github.com/prometheus/client_golang/prometheus"

// Datasource metrics
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests to the stats service by endpoint and status",
	}, []string{"endpoint", "status"})
	UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_latency_seconds",
		Help:      "Latency of stats service requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
	LookupCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_cache_total",
		Help:      "Player lookup cache results",
	}, []string{"result"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of stats client circuit breaker trips",
	})
)

// RecordUpstreamRequest records a stats service request.
func RecordUpstreamRequest(endpoint, status string, durationSeconds float64) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordLookupCache records a lookup cache hit or miss
func RecordLookupCache(hit bool) {
	if hit {
		LookupCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	LookupCacheTotal.WithLabelValues("miss").Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
