package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func snapshotForTest() *RateSnapshot {
	return &RateSnapshot{
		Base: "USD",
		Rates: map[string]float64{
			"USD": 1,
			"EUR": 0.9,
			"PEN": 3.7,
		},
		FetchedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:    SourceLive,
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Adds missing self-rate", func(t *testing.T) {
		s := &RateSnapshot{
			Base:  "USD",
			Rates: map[string]float64{"EUR": 0.9},
		}
		s.Normalize(now)

		assert.Equal(t, 1.0, s.Rates["USD"])
		assert.Equal(t, now, s.FetchedAt)
	})

	t.Run("Keeps existing self-rate and timestamp", func(t *testing.T) {
		fetched := now.Add(-time.Hour)
		s := &RateSnapshot{
			Base:      "USD",
			Rates:     map[string]float64{"USD": 1, "EUR": 0.9},
			FetchedAt: fetched,
		}
		s.Normalize(now)

		assert.Equal(t, fetched, s.FetchedAt)
		assert.NoError(t, s.Validate())
	})
}

func TestConvert(t *testing.T) {
	snapshot := snapshotForTest()

	t.Run("Two-step conversion through the base", func(t *testing.T) {
		res, err := snapshot.Convert(10, "EUR", "PEN")

		assert.NoError(t, err)
		assert.InDelta(t, 41.111, res.Result, 0.001) // 10 * 3.7 / 0.9
		assert.InDelta(t, 4.111, res.EffectiveRate, 0.001)
	})

	t.Run("Identity when from equals to", func(t *testing.T) {
		res, err := snapshot.Convert(123.45, "PEN", "PEN")

		assert.NoError(t, err)
		assert.Equal(t, 123.45, res.Result)
		assert.Equal(t, 1.0, res.EffectiveRate)
	})

	t.Run("Result matches amount*b/a", func(t *testing.T) {
		res, err := snapshot.Convert(250, "USD", "EUR")

		assert.NoError(t, err)
		assert.InDelta(t, 250*0.9, res.Result, 1e-9)
		assert.InDelta(t, 0.9, res.EffectiveRate, 1e-9)
	})

	t.Run("Negative amount degrades to zero but keeps the rate", func(t *testing.T) {
		res, err := snapshot.Convert(-5, "EUR", "PEN")

		assert.NoError(t, err)
		assert.Equal(t, 0.0, res.Result)
		assert.Equal(t, 0.0, res.Amount)
		assert.InDelta(t, 4.111, res.EffectiveRate, 0.001)
	})

	t.Run("NaN amount degrades to zero", func(t *testing.T) {
		res, err := snapshot.Convert(math.NaN(), "USD", "EUR")

		assert.NoError(t, err)
		assert.Equal(t, 0.0, res.Result)
		assert.InDelta(t, 0.9, res.EffectiveRate, 1e-9)
	})

	t.Run("Unknown currency is an error", func(t *testing.T) {
		_, err := snapshot.Convert(10, "XXX", "PEN")
		assert.Error(t, err)

		_, err = snapshot.Convert(10, "PEN", "XXX")
		assert.Error(t, err)
	})
}
