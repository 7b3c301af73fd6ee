// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the speicher policy service.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts all HTTP requests by method, status class, and route.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speicher_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "route"},
	)

	// RequestDuration records HTTP request duration in seconds by route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "speicher_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ResolutionsTotal counts policy resolutions by provider and the cache
	// type of the resolved configuration.
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speicher_policy_resolutions_total",
			Help: "Policy resolutions",
		},
		[]string{"provider", "cache_type"},
	)

	// EffectiveProviderTotal counts routed-model detections by the routing
	// provider and the detected underlying provider.
	EffectiveProviderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speicher_effective_provider_total",
			Help: "Effective provider detections",
		},
		[]string{"provider", "effective"},
	)

	// RegistrySwapsTotal counts registry hot reloads.
	RegistrySwapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "speicher_registry_swaps_total",
			Help: "Registry hot reloads",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ResolutionsTotal,
		EffectiveProviderTotal,
		RegistrySwapsTotal,
	)
}
