package providers

import "agd/internal/structures"

// MetricsCacheProvider counts hits and misses per entity kind.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(revision, kind string, id uint32) ([]byte, bool) {
	val, ok := c.inner.Get(revision, kind, id)
	if ok {
		c.metrics.IncCacheHits(kind)
	} else {
		c.metrics.IncCacheMisses(kind)
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(revision, kind string, id uint32, body []byte) {
	c.inner.Set(revision, kind, id, body)
}

// NewInstrumentedCacheProvider wraps the response cache with hit/miss counters.
// A disabled cache is returned bare so it does not report a miss per lookup.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
