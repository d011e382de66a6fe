package render

import (
	"fmt"
	"strings"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

const (
	mapWidth  = 1200
	mapHeight = 660
	// legendHeight reserves a strip under the map for the color ramp.
	legendHeight = 60
)

// ramp endpoints: pale orange to deep red.
var (
	rampLow  = [3]float64{1.00, 0.96, 0.88}
	rampHigh = [3]float64{0.65, 0.04, 0.04}
	noData   = [3]float64{0.82, 0.82, 0.82}
)

// Choropleth colors each country polygon by its latest value of the given
// metric. Countries without data, and data without geometry, are painted in
// the "no data" gray rather than failing the run. Returns domain.ErrNoData
// when the renderer has no world geometry or no country has a value.
func (r *Renderer) Choropleth(latest []domain.Record, metric domain.Metric, title, filename string) error {
	if r.world == nil {
		return domain.ErrNoData
	}

	values := make(map[string]float64, len(latest))
	var maxVal float64
	for i := range latest {
		v := latest[i].Value(metric)
		if v == nil {
			continue
		}
		iso := strings.ToUpper(latest[i].ISOCode)
		values[iso] = *v
		if *v > maxVal {
			maxVal = *v
		}
	}
	if len(values) == 0 || maxVal == 0 {
		return domain.ErrNoData
	}

	dc := gg.NewContext(mapWidth, mapHeight+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, country := range r.world.Countries {
		fill := noData
		if v, ok := values[country.ISOCode]; ok {
			fill = rampColor(v / maxVal)
		}
		drawCountry(dc, country.Geometry, fill)
	}

	drawLegend(dc, metric, maxVal)

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawString(title, 10, 16)

	if err := dc.SavePNG(r.path(filename)); err != nil {
		return fmt.Errorf("write choropleth %s: %w", filename, err)
	}
	r.logger.Info("chart written", "path", r.path(filename))
	return nil
}

// project maps a WGS-84 lon/lat onto the canvas with an equirectangular
// projection filling the map area.
func project(p orb.Point) (float64, float64) {
	x := (p[0] + 180) / 360 * mapWidth
	y := (90 - p[1]) / 180 * mapHeight
	return x, y
}

func drawCountry(dc *gg.Context, g orb.Geometry, fill [3]float64) {
	switch geom := g.(type) {
	case orb.Polygon:
		tracePolygon(dc, geom)
	case orb.MultiPolygon:
		for _, poly := range geom {
			tracePolygon(dc, poly)
		}
	default:
		return
	}

	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetRGB(fill[0], fill[1], fill[2])
	dc.FillPreserve()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(0.6)
	dc.Stroke()
}

// tracePolygon adds all rings of a polygon to the current path. Inner rings
// become holes under the even-odd fill rule.
func tracePolygon(dc *gg.Context, poly orb.Polygon) {
	for _, ring := range poly {
		if len(ring) == 0 {
			continue
		}
		dc.NewSubPath()
		x, y := project(ring[0])
		dc.MoveTo(x, y)
		for _, pt := range ring[1:] {
			x, y = project(pt)
			dc.LineTo(x, y)
		}
		dc.ClosePath()
	}
}

// rampColor interpolates the fill color for a normalized value in [0, 1].
func rampColor(t float64) [3]float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	var c [3]float64
	for i := range c {
		c[i] = rampLow[i] + (rampHigh[i]-rampLow[i])*t
	}
	return c
}

func drawLegend(dc *gg.Context, metric domain.Metric, maxVal float64) {
	const (
		barX     = 20.0
		barWidth = 300.0
		barH     = 14.0
	)
	barY := float64(mapHeight) + 18

	// Gradient bar drawn as thin vertical slices.
	steps := int(barWidth)
	for i := 0; i < steps; i++ {
		c := rampColor(float64(i) / float64(steps-1))
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(barX+float64(i), barY, 1, barH)
		dc.Fill()
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawString("0", barX, barY+barH+14)
	dc.DrawString(fmt.Sprintf("%.4g", maxVal), barX+barWidth-20, barY+barH+14)
	dc.DrawString(metric.DisplayName(), barX+barWidth+30, barY+barH-2)

	// "No data" swatch.
	swatchX := barX + barWidth + 220
	dc.SetRGB(noData[0], noData[1], noData[2])
	dc.DrawRectangle(swatchX, barY, barH, barH)
	dc.Fill()
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawString("no data", swatchX+barH+6, barY+barH-2)
}
