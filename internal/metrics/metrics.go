package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of event/venue store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of failed store calls",
		},
		[]string{"operation"},
	)

	// outcome: upgraded | noop | invalid | failed
	TierUpgrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tier_upgrades_total",
			Help: "Tier upgrade attempts by outcome and requested tier",
		},
		[]string{"outcome", "tier"},
	)

	BrowseSupersededFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "browse_superseded_fetches_total",
			Help: "Event fetches discarded because a newer fetch was issued",
		},
	)
)

func RecordAPIRequest(method, route string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, s).Inc()
}

// ObserveStore records the duration of a store call and counts it as an
// error when err is non-nil.
func ObserveStore(operation string, start time.Time, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation).Inc()
	}
}

func RecordUpgrade(outcome, tier string) {
	TierUpgrades.WithLabelValues(outcome, tier).Inc()
}
