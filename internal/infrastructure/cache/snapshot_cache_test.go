package cache

import (
	"testing"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotStore(t *testing.T) {
	store := NewSnapshotStore()

	t.Run("Empty store has no snapshot", func(t *testing.T) {
		_, ok := store.Current()
		assert.False(t, ok)
	})

	t.Run("Replace installs a new snapshot wholesale", func(t *testing.T) {
		first := &entity.RateSnapshot{
			Base:      "USD",
			Rates:     map[string]float64{"USD": 1, "EUR": 0.9},
			FetchedAt: time.Now(),
			Source:    entity.SourceLive,
		}
		store.Replace(first)

		got, ok := store.Current()
		assert.True(t, ok)
		assert.Equal(t, first, got)

		second := &entity.RateSnapshot{
			Base:      "USD",
			Rates:     map[string]float64{"USD": 1, "PEN": 3.7},
			FetchedAt: time.Now(),
			Source:    entity.SourceFallback,
		}
		store.Replace(second)

		got, ok = store.Current()
		assert.True(t, ok)
		assert.Equal(t, second, got)
		assert.NotContains(t, got.Rates, "EUR")
	})
}

func TestTrendFencing(t *testing.T) {
	store := NewSnapshotStore()
	geomA := entity.PlotGeometry{Width: 600, Height: 300}
	geomB := entity.PlotGeometry{Width: 800, Height: 400}

	t.Run("Latest token wins", func(t *testing.T) {
		older := store.NextTrendToken()
		newer := store.NextTrendToken()

		// The newer request resolves first; the older one must be dropped.
		assert.True(t, store.PutTrend("USD", "PEN", geomB, newer))
		assert.False(t, store.PutTrend("USD", "EUR", geomA, older))

		geom, from, to, ok := store.LatestTrend()
		assert.True(t, ok)
		assert.Equal(t, geomB, geom)
		assert.Equal(t, "USD", from)
		assert.Equal(t, "PEN", to)
	})

	t.Run("A token cannot be reused after a newer one was issued", func(t *testing.T) {
		tok := store.NextTrendToken()
		store.NextTrendToken()

		assert.False(t, store.PutTrend("USD", "CLP", geomA, tok))
	})
}
