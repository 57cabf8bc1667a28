package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"currency-calculator/internal/domain/model"
	"currency-calculator/pkg/logger"
)

// RedisCache keeps rate tables in Redis so that several server instances
// share one upstream cache. Entries expire through Redis TTLs.
type RedisCache struct {
	client   *redis.Client
	prefix   string
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewRedisCache connects using a redis:// URL.
func NewRedisCache(url, prefix string, cacheTTL time.Duration, log *logger.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisCacheWithClient(redis.NewClient(opt), prefix, cacheTTL, log), nil
}

func NewRedisCacheWithClient(client *redis.Client, prefix string, cacheTTL time.Duration, log *logger.Logger) *RedisCache {
	return &RedisCache{
		client:   client,
		prefix:   prefix,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (model.RateTable, bool) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug("Redis cache miss", "key", key)
		return model.RateTable{}, false
	}
	if err != nil {
		r.log.Error("Redis cache get error", "key", key, "error", err)
		return model.RateTable{}, false
	}

	var table model.RateTable
	if err := json.Unmarshal(val, &table); err != nil {
		r.log.Error("Redis cache unmarshal error", "key", key, "error", err)
		return model.RateTable{}, false
	}

	r.log.Debug("Redis cache hit", "key", key, "count", table.Len())
	return table, true
}

func (r *RedisCache) Set(ctx context.Context, key string, table model.RateTable) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encoding rate table: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.log.Debug("Redis cache set", "key", key, "count", table.Len(), "ttl", r.cacheTTL)
	return nil
}

// ClearExpired is a no-op: Redis evicts expired keys itself.
func (r *RedisCache) ClearExpired(ctx context.Context) error {
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
