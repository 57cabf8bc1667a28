package repository

import (
	"context"

	"golang.org/x/sync/singleflight"

	"currency-calculator/internal/domain/model"
	"currency-calculator/internal/domain/ports"
	"currency-calculator/internal/metrics"
	"currency-calculator/pkg/logger"
)

// CachedRateSource decorates a RateSource with a shared cache so that many
// sessions mounting at once cost one upstream request. Concurrent misses
// for the same key wait on a single fetch.
type CachedRateSource struct {
	next    ports.RateSource
	cache   ports.RateCache
	key     string
	group   singleflight.Group
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewCachedRateSource(next ports.RateSource, cache ports.RateCache, key string, log *logger.Logger, m *metrics.Metrics) *CachedRateSource {
	return &CachedRateSource{
		next:    next,
		cache:   cache,
		key:     key,
		log:     log,
		metrics: m,
	}
}

func (c *CachedRateSource) FetchRates(ctx context.Context) (model.RateTable, error) {
	if table, found := c.cache.Get(ctx, c.key); found {
		c.observe("hit")
		return table, nil
	}
	c.observe("miss")

	v, err, shared := c.group.Do(c.key, func() (any, error) {
		table, err := c.next.FetchRates(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, c.key, table); err != nil {
			c.log.Warn("Failed to cache rate table", "key", c.key, "error", err)
		}
		return table, nil
	})
	if err != nil {
		return model.RateTable{}, err
	}
	if shared {
		c.log.Debug("Shared in-flight rate fetch", "key", c.key)
	}
	return v.(model.RateTable), nil
}

func (c *CachedRateSource) observe(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.RateCacheLookups.WithLabelValues(result).Inc()
}
