package cache

import (
	"context"
	"sync"
	"time"

	"currency-calculator/internal/domain/model"
	"currency-calculator/pkg/logger"
)

type entry struct {
	table    model.RateTable
	storedAt time.Time
}

type MemoryCache struct {
	cacheMap map[string]entry
	mutex    sync.RWMutex
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewMemoryCache(cacheTTL time.Duration, log *logger.Logger) *MemoryCache {
	return &MemoryCache{
		cacheMap: make(map[string]entry),
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (model.RateTable, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, found := c.cacheMap[key]
	if !found {
		c.log.Debug("Cache miss", "key", key)
		return model.RateTable{}, false
	}
	if c.now().Sub(e.storedAt) > c.cacheTTL {
		c.log.Debug("Cache entry expired", "key", key)
		return model.RateTable{}, false
	}

	c.log.Debug("Cache hit", "key", key)
	return e.table.Clone(), true
}

func (c *MemoryCache) Set(ctx context.Context, key string, table model.RateTable) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cacheMap[key] = entry{table: table.Clone(), storedAt: c.now()}
	c.log.Debug("Cache set", "key", key, "count", table.Len())

	return nil
}

func (c *MemoryCache) ClearExpired(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	expiredKeys := make([]string, 0)

	for key, e := range c.cacheMap {
		if now.Sub(e.storedAt) > c.cacheTTL {
			expiredKeys = append(expiredKeys, key)
		}
	}

	for _, key := range expiredKeys {
		delete(c.cacheMap, key)
		c.log.Debug("Removed expired cache entry", "key", key)
	}

	if len(expiredKeys) > 0 {
		c.log.Info("Cleared expired cache entries", "count", len(expiredKeys))
	}
	return nil
}
