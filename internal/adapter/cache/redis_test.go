package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-calculator/internal/domain/model"
	"currency-calculator/pkg/logger"
)

// Runs against a real server only when REDIS_TEST_ADDR is set.
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	prefix := "test:" + uuid.NewString() + ":"
	c := NewRedisCacheWithClient(client, prefix, time.Minute, logger.NewNop())
	require.NoError(t, c.Ping(context.Background()))
	return c
}

func TestRedisCache_RoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	_, found := c.Get(ctx, "rates")
	assert.False(t, found)

	table := model.NewRateTable(
		model.Rate{Currency: "ZAR", Value: 20.1},
		model.Rate{Currency: "AUD", Value: 1.6},
		model.Rate{Currency: "EUR", Value: 1},
	)
	require.NoError(t, c.Set(ctx, "rates", table))

	got, found := c.Get(ctx, "rates")
	require.True(t, found)
	assert.Equal(t, table.Codes(), got.Codes())
	assert.NoError(t, c.ClearExpired(ctx))
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("not a url", "p:", time.Minute, logger.NewNop())
	assert.Error(t, err)
}
