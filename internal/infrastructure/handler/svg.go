package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
)

// RenderSVG turns plot geometry into standalone SVG markup: grid lines,
// min/max labels, the filled area, the rate path and dated markers. It is a
// pure string adapter over the geometry; all coordinates were already
// computed.
func RenderSVG(geom entity.PlotGeometry, from, to string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg class="chart-svg" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="none">`,
		geom.Width, geom.Height)
	b.WriteString(`<defs><linearGradient id="chart-gradient" x1="0" y1="0" x2="0" y2="1">`)
	b.WriteString(`<stop offset="0%" stop-color="currentColor" stop-opacity="0.3"/>`)
	b.WriteString(`<stop offset="100%" stop-color="currentColor" stop-opacity="0"/>`)
	b.WriteString(`</linearGradient></defs>`)

	fmt.Fprintf(&b, `<text class="chart-title" x="%.2f" y="%.2f">%s / %s</text>`,
		geom.Padding, geom.Padding-10, from, to)

	for _, y := range geom.GridYs {
		fmt.Fprintf(&b, `<line class="chart-axis" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`,
			geom.Padding, y, geom.Width-geom.Padding, y)
	}

	fmt.Fprintf(&b, `<text class="chart-label" x="%.2f" y="%.2f" text-anchor="end">%.2f</text>`,
		geom.Padding-5, geom.Padding, geom.Max)
	fmt.Fprintf(&b, `<text class="chart-label" x="%.2f" y="%.2f" text-anchor="end">%.2f</text>`,
		geom.Padding-5, geom.Height-geom.Padding, geom.Min)

	fmt.Fprintf(&b, `<path class="chart-area" fill="url(#chart-gradient)" d="%s"/>`, geom.Area)
	fmt.Fprintf(&b, `<path class="chart-path" fill="none" d="%s"/>`, geom.Path)

	for _, p := range geom.Points {
		if !p.Marker {
			continue
		}
		fmt.Fprintf(&b, `<circle class="chart-point" cx="%.2f" cy="%.2f" r="4"><title>%s: %.4f %s</title></circle>`,
			p.X, p.Y, p.Date, p.Value, to)
		fmt.Fprintf(&b, `<text class="chart-label" x="%.2f" y="%.2f" text-anchor="middle">%s</text>`,
			p.X, geom.Height-geom.Padding+20, shortDate(p.Date))
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// shortDate formats a calendar date as "02 Jun" for the axis; unparseable
// dates pass through untouched.
func shortDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02 Jan")
}
