package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-calculator/internal/domain/model"
	"currency-calculator/pkg/logger"
)

func testTable() model.RateTable {
	return model.NewRateTable(
		model.Rate{Currency: "EUR", Value: 1},
		model.Rate{Currency: "USD", Value: 1.08},
	)
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, logger.NewNop())

	_, found := c.Get(ctx, "rates")
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "rates", testTable()))

	table, found := c.Get(ctx, "rates")
	assert.True(t, found)
	assert.Equal(t, []model.Currency{"EUR", "USD"}, table.Codes())
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute, logger.NewNop())
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "rates", testTable()))
	require.NoError(t, c.Set(ctx, "other", testTable()))

	now = now.Add(30 * time.Second)
	_, found := c.Get(ctx, "rates")
	assert.True(t, found)

	now = now.Add(time.Minute)
	_, found = c.Get(ctx, "rates")
	assert.False(t, found)

	require.NoError(t, c.ClearExpired(ctx))
	assert.Empty(t, c.cacheMap)
}

func TestMemoryCache_StoresCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, logger.NewNop())
	table := testTable()

	require.NoError(t, c.Set(ctx, "rates", table))
	table.Set("GBP", 0.85)

	cached, _ := c.Get(ctx, "rates")
	assert.False(t, cached.Has("GBP"))
}
