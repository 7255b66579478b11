package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seriesForTest(values ...float64) TrendSeries {
	points := make([]TrendPoint, len(values))
	for i, v := range values {
		points[i] = TrendPoint{Date: fmt.Sprintf("2025-06-%02d", i+1), Value: v}
	}
	return TrendSeries{From: "USD", To: "PEN", Points: points}
}

func TestRender(t *testing.T) {
	t.Run("Points stay inside the padded box", func(t *testing.T) {
		series := seriesForTest(3.5, 3.7, 3.6, 3.9, 3.4, 3.8)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		assert.Len(t, geom.Points, 6)
		for _, p := range geom.Points {
			assert.GreaterOrEqual(t, p.X, 40.0)
			assert.LessOrEqual(t, p.X, 560.0)
			assert.GreaterOrEqual(t, p.Y, 40.0)
			assert.LessOrEqual(t, p.Y, 260.0)
			assert.GreaterOrEqual(t, p.Value, geom.Min)
			assert.LessOrEqual(t, p.Value, geom.Max)
		}
	})

	t.Run("Range is padded by a tenth of a percent", func(t *testing.T) {
		series := seriesForTest(2, 4)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		assert.InDelta(t, 2*0.999, geom.Min, 1e-9)
		assert.InDelta(t, 4*1.001, geom.Max, 1e-9)
	})

	t.Run("Every 5th point and the last one are markers", func(t *testing.T) {
		series := seriesForTest(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		for i, p := range geom.Points {
			want := i%5 == 0 || i == len(geom.Points)-1
			assert.Equal(t, want, p.Marker, "point %d", i)
		}
	})

	t.Run("Single point does not divide by zero", func(t *testing.T) {
		series := seriesForTest(3.7)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		assert.Len(t, geom.Points, 1)
		assert.False(t, isNaN(geom.Points[0].X))
		assert.False(t, isNaN(geom.Points[0].Y))
		assert.Equal(t, 300.0, geom.Points[0].X) // horizontal center
		assert.True(t, geom.Points[0].Marker)
	})

	t.Run("All-zero series pins points to the midline", func(t *testing.T) {
		series := seriesForTest(0, 0, 0)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		for _, p := range geom.Points {
			assert.Equal(t, 150.0, p.Y)
		}
	})

	t.Run("Flat non-zero series still has a usable range", func(t *testing.T) {
		series := seriesForTest(3.7, 3.7, 3.7)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		assert.Greater(t, geom.Max, geom.Min)
		for _, p := range geom.Points {
			assert.False(t, isNaN(p.Y))
		}
	})

	t.Run("Empty series is an error", func(t *testing.T) {
		_, err := Render(TrendSeries{From: "USD", To: "PEN"}, 600, 300, 40)
		assert.Error(t, err)
	})

	t.Run("Path and area are emitted", func(t *testing.T) {
		series := seriesForTest(3.5, 3.7, 3.6)
		geom, err := Render(series, 600, 300, 40)

		assert.NoError(t, err)
		assert.Contains(t, geom.Path, "M ")
		assert.Contains(t, geom.Path, " L ")
		assert.Contains(t, geom.Area, "Z")
		assert.Equal(t, []float64{40, 150, 260}, geom.GridYs)
	})
}

func isNaN(f float64) bool {
	return f != f
}
