package providers

import (
	"agd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SyncResultUpdated   = "updated"
	SyncResultUnchanged = "unchanged"
	SyncResultFailed    = "failed"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(kind string)
	IncCacheMisses(kind string)
	ObservePersistenceDuration(duration time.Duration)
	IncSyncTotal(result string)
	ObserveSyncDuration(duration time.Duration)
	AddDroppedEntries(table string, count int)
	SetEntriesTotal(table string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	syncTotal           *prometheus.CounterVec
	syncDuration        prometheus.Histogram
	droppedEntries      *prometheus.CounterVec
	entriesTotal        *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncCacheMisses(kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSyncTotal(result string) {
	m.syncTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObserveSyncDuration(duration time.Duration) {
	m.syncDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddDroppedEntries(table string, count int) {
	m.droppedEntries.WithLabelValues(table).Add(float64(count))
}

func (m *MetricsProvider) SetEntriesTotal(table string, count int) {
	m.entriesTotal.WithLabelValues(table).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agd_cache_hits_total",
			Help: "Lookup responses served from the response cache",
		}, []string{"kind"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agd_cache_misses_total",
			Help: "Lookups that had to be rendered from the snapshot",
		}, []string{"kind"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agd_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		syncTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agd_sync_total",
			Help: "Synchronization attempts by result",
		}, []string{"result"}),

		syncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agd_sync_duration_seconds",
			Help:    "Duration of synchronizations that built a new snapshot",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		droppedEntries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agd_dropped_entries_total",
			Help: "Table rows dropped because a reference could not be resolved",
		}, []string{"table"}),

		entriesTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agd_entries_total",
			Help: "Number of entries per derived map in the current snapshot",
		}, []string{"table"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSyncTotal(_ string)                            {}
func (n *noopMetrics) ObserveSyncDuration(_ time.Duration)              {}
func (n *noopMetrics) AddDroppedEntries(_ string, _ int)                {}
func (n *noopMetrics) SetEntriesTotal(_ string, _ int)                  {}
