// internal/application/service/trend_service_test.go
package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/cache"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBuildSeries(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Real data covers the 30 days ending at the latest date", func(t *testing.T) {
		historical := new(MockHistoricalRateSource)
		historical.On("LatestDate", ctx, "USD", "PEN").Return("2025-06-30", nil).Once()
		historical.On("FetchRange", ctx, "USD", "PEN", "2025-05-31", "2025-06-30").Return([]entity.TrendPoint{
			{Date: "2025-05-31", Value: 3.65},
			{Date: "2025-06-15", Value: 3.70},
			{Date: "2025-06-30", Value: 3.72},
		}, nil).Once()

		svc := NewTrendService(historical, storeWithSnapshot(), rand.New(rand.NewSource(1)), log)
		series := svc.BuildSeries(ctx, "USD", "PEN")

		assert.False(t, series.Synthetic)
		assert.Len(t, series.Points, 3)
		assert.Equal(t, "2025-05-31", series.Points[0].Date)
		historical.AssertExpectations(t)
	})

	t.Run("Latest-date failure falls back to synthesis", func(t *testing.T) {
		historical := new(MockHistoricalRateSource)
		historical.On("LatestDate", ctx, "USD", "PEN").Return("", errors.New("504")).Once()

		svc := NewTrendService(historical, storeWithSnapshot(), rand.New(rand.NewSource(1)), log)
		series := svc.BuildSeries(ctx, "USD", "PEN")

		assert.True(t, series.Synthetic)
		assert.Len(t, series.Points, 31)
		historical.AssertNotCalled(t, "FetchRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty range falls back to synthesis", func(t *testing.T) {
		historical := new(MockHistoricalRateSource)
		historical.On("LatestDate", ctx, "USD", "PEN").Return("2025-06-30", nil).Once()
		historical.On("FetchRange", ctx, "USD", "PEN", "2025-05-31", "2025-06-30").Return([]entity.TrendPoint{}, nil).Once()

		svc := NewTrendService(historical, storeWithSnapshot(), rand.New(rand.NewSource(1)), log)
		series := svc.BuildSeries(ctx, "USD", "PEN")

		assert.True(t, series.Synthetic)
		assert.Len(t, series.Points, 31)
	})
}

func TestSynthesize(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)

	t.Run("Values stay within the noise and wave envelope", func(t *testing.T) {
		svc := NewTrendService(nil, storeWithSnapshot(), rand.New(rand.NewSource(42)), log)
		series := svc.Synthesize("USD", "PEN")

		rate := 3.7 // rates[PEN]/rates[USD] of the test snapshot
		assert.Len(t, series.Points, 31)
		for _, p := range series.Points {
			// variance within ±1%, wave within ±1%
			assert.Greater(t, p.Value, rate*0.99*0.99)
			assert.Less(t, p.Value, rate*1.01*1.01)
		}
	})

	t.Run("Dates ascend day by day up to today", func(t *testing.T) {
		svc := NewTrendService(nil, storeWithSnapshot(), rand.New(rand.NewSource(7)), log)
		series := svc.Synthesize("EUR", "PEN")

		for i := 1; i < len(series.Points); i++ {
			assert.Greater(t, series.Points[i].Date, series.Points[i-1].Date)
		}
	})

	t.Run("Seeded source makes synthesis reproducible", func(t *testing.T) {
		first := NewTrendService(nil, storeWithSnapshot(), rand.New(rand.NewSource(99)), log)
		second := NewTrendService(nil, storeWithSnapshot(), rand.New(rand.NewSource(99)), log)

		assert.Equal(t, first.Synthesize("USD", "PEN").Points, second.Synthesize("USD", "PEN").Points)
	})

	t.Run("Missing snapshot defaults the rate to one", func(t *testing.T) {
		svc := NewTrendService(nil, cache.NewSnapshotStore(), rand.New(rand.NewSource(3)), log)
		series := svc.Synthesize("USD", "PEN")

		for _, p := range series.Points {
			assert.InDelta(t, 1.0, p.Value, 0.03)
		}
	})
}

func TestRefresh(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Refresh renders and applies the latest chart", func(t *testing.T) {
		historical := new(MockHistoricalRateSource)
		historical.On("LatestDate", ctx, "USD", "PEN").Return("", errors.New("down")).Once()

		store := storeWithSnapshot()
		svc := NewTrendService(historical, store, rand.New(rand.NewSource(5)), log)

		series, geom, applied, err := svc.Refresh(ctx, "USD", "PEN", 600, 300)

		assert.NoError(t, err)
		assert.True(t, applied)
		assert.True(t, series.Synthetic)
		assert.Len(t, geom.Points, 31)

		latest, from, to, ok := store.LatestTrend()
		assert.True(t, ok)
		assert.Equal(t, geom, latest)
		assert.Equal(t, "USD", from)
		assert.Equal(t, "PEN", to)

		cached, ok := svc.Cached("USD", "PEN", 600, 300)
		assert.True(t, ok)
		assert.Equal(t, geom, cached)

		_, ok = svc.Cached("USD", "EUR", 600, 300)
		assert.False(t, ok)
		_, ok = svc.Cached("USD", "PEN", 800, 320)
		assert.False(t, ok)
	})

	t.Run("A newer issued token supersedes an in-flight refresh", func(t *testing.T) {
		historical := new(MockHistoricalRateSource)
		store := storeWithSnapshot()
		svc := NewTrendService(historical, store, rand.New(rand.NewSource(5)), log)

		// The historical fetch for the first pair issues a newer token from
		// inside the source, simulating a second request overtaking it.
		historical.On("LatestDate", ctx, "USD", "EUR").Return("", errors.New("slow")).Run(func(mock.Arguments) {
			store.NextTrendToken()
		}).Once()

		_, _, applied, err := svc.Refresh(ctx, "USD", "EUR", 600, 300)

		assert.NoError(t, err)
		assert.False(t, applied)
	})
}

func TestRenderDefaults(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	svc := NewTrendService(nil, storeWithSnapshot(), rand.New(rand.NewSource(11)), log)

	series := svc.Synthesize("USD", "PEN")
	geom, err := svc.Render(series, 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, 800.0, geom.Width)
	assert.Equal(t, 320.0, geom.Height)
	assert.Equal(t, 40.0, geom.Padding)
}
