package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-calculator/internal/adapter/cache"
	"currency-calculator/internal/domain/model"
	"currency-calculator/internal/metrics"
	"currency-calculator/pkg/logger"
)

type MockRateSource struct {
	FetchRatesFunc func(ctx context.Context) (model.RateTable, error)
}

func (m *MockRateSource) FetchRates(ctx context.Context) (model.RateTable, error) {
	return m.FetchRatesFunc(ctx)
}

func TestCachedRateSource_CachesUpstream(t *testing.T) {
	var calls int32
	source := &MockRateSource{
		FetchRatesFunc: func(ctx context.Context) (model.RateTable, error) {
			atomic.AddInt32(&calls, 1)
			return model.NewRateTable(model.Rate{Currency: "USD", Value: 1}), nil
		},
	}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	cached := NewCachedRateSource(source, cache.NewMemoryCache(time.Minute, logger.NewNop()), "rates", logger.NewNop(), m)

	for i := 0; i < 3; i++ {
		table, err := cached.FetchRates(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []model.Currency{"USD"}, table.Codes())
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateCacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateCacheLookups.WithLabelValues("hit")))
}

func TestCachedRateSource_CollapsesConcurrentMisses(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	source := &MockRateSource{
		FetchRatesFunc: func(ctx context.Context) (model.RateTable, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return model.NewRateTable(model.Rate{Currency: "EUR", Value: 1}), nil
		},
	}
	cached := NewCachedRateSource(source, cache.NewMemoryCache(time.Minute, logger.NewNop()), "rates", logger.NewNop(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.FetchRates(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCachedRateSource_ErrorsAreNotCached(t *testing.T) {
	var calls int32
	source := &MockRateSource{
		FetchRatesFunc: func(ctx context.Context) (model.RateTable, error) {
			atomic.AddInt32(&calls, 1)
			return model.RateTable{}, errors.New("upstream down")
		},
	}
	cached := NewCachedRateSource(source, cache.NewMemoryCache(time.Minute, logger.NewNop()), "rates", logger.NewNop(), nil)

	_, err := cached.FetchRates(context.Background())
	assert.Error(t, err)
	_, err = cached.FetchRates(context.Background())
	assert.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
