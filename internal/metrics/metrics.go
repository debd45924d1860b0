package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront_search"

type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal  *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	SlowSearches   prometheus.Counter
	EmptyQueries   prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	HTTPRequestsTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry so several instances
// can coexist (tests, multiple servers).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of product searches by path and status",
			},
			[]string{"path", "status"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Product search duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
			},
			[]string{"path"},
		),
		SlowSearches: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "slow_searches_total",
				Help:      "Searches slower than the slow-query threshold",
			},
		),
		EmptyQueries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "empty_queries_total",
				Help:      "Searches short-circuited because the query was empty",
			},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Primary capability result cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Primary capability result cache misses",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

// Registry exposes the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves this instance's collectors in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordSearch(path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(path, status).Inc()
	m.SearchDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (m *Metrics) RecordSlowSearch() {
	if m == nil {
		return
	}
	m.SlowSearches.Inc()
}

func (m *Metrics) RecordEmptyQuery() {
	if m == nil {
		return
	}
	m.EmptyQueries.Inc()
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordHTTPRequest(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
