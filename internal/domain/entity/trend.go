package entity

import (
	"errors"
	"fmt"
	"strings"
)

// TrendPoint is one dated rate sample of a trend series.
type TrendPoint struct {
	Date  string  `json:"date"` // calendar date, 2006-01-02
	Value float64 `json:"value"`
}

// TrendSeries is a time-ordered sequence of rate samples for one currency
// pair, either fetched from a historical source or synthesized.
type TrendSeries struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	Points    []TrendPoint `json:"points"`
	Synthetic bool         `json:"synthetic"`
}

// PlotPoint is one trend sample mapped into pixel space. Marker points carry
// an axis label and a visible dot; every 5th point plus the last one.
type PlotPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Value  float64 `json:"value"`
	Date   string  `json:"date"`
	Marker bool    `json:"marker"`
}

// PlotGeometry is the computed plot of a trend series: scales, point
// coordinates and path data. It carries no drawing side effects; an adapter
// turns it into actual markup.
type PlotGeometry struct {
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Padding float64     `json:"padding"`
	Min     float64     `json:"min"`
	Max     float64     `json:"max"`
	Points  []PlotPoint `json:"points"`
	Path    string      `json:"path"`
	Area    string      `json:"area"`
	GridYs  []float64   `json:"grid_ys"`
}

// Render maps the series into a width×height box with the given padding.
// The value range is padded by 0.1% on each side so a flat series still plots
// off the border; a range that is degenerate even after padding (all values
// equal zero) pins points to the vertical midline, and a single-point series
// is pinned to the horizontal center.
func Render(series TrendSeries, width, height, padding float64) (PlotGeometry, error) {
	n := len(series.Points)
	if n == 0 {
		return PlotGeometry{}, errors.New("cannot render empty trend series")
	}

	min, max := series.Points[0].Value, series.Points[0].Value
	for _, p := range series.Points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	min *= 0.999
	max *= 1.001
	valueRange := max - min

	innerW := width - 2*padding
	innerH := height - 2*padding

	var path, area strings.Builder
	points := make([]PlotPoint, 0, n)
	for i, p := range series.Points {
		x := padding + innerW/2
		if n > 1 {
			x = padding + float64(i)/float64(n-1)*innerW
		}
		y := height / 2
		if valueRange > 0 {
			y = height - padding - (p.Value-min)/valueRange*innerH
		}

		if i == 0 {
			fmt.Fprintf(&path, "M %.2f,%.2f", x, y)
		} else {
			fmt.Fprintf(&path, " L %.2f,%.2f", x, y)
		}

		points = append(points, PlotPoint{
			X:      x,
			Y:      y,
			Value:  p.Value,
			Date:   p.Date,
			Marker: i%5 == 0 || i == n-1,
		})
	}

	// Close the area down to the baseline and back to the first point.
	fmt.Fprintf(&area, "%s L %.2f,%.2f L %.2f,%.2f Z",
		path.String(),
		points[n-1].X, height-padding,
		points[0].X, height-padding)

	return PlotGeometry{
		Width:   width,
		Height:  height,
		Padding: padding,
		Min:     min,
		Max:     max,
		Points:  points,
		Path:    path.String(),
		Area:    area.String(),
		GridYs:  []float64{padding, height / 2, height - padding},
	}, nil
}
