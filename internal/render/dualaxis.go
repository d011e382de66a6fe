package render

import (
	"github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

// DualAxis overlays two differently scaled metrics on one time axis: the
// primary metric on the left axis, the secondary (dashed) on the right.
// Returns domain.ErrNoData when either metric has nothing to draw.
func (r *Renderer) DualAxis(ds domain.Dataset, primary, secondary domain.Metric, title, filename string) error {
	left := buildSeries(ds, primary)
	right := buildSeries(ds, secondary)
	if len(left) == 0 || len(right) == 0 {
		return domain.ErrNoData
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: primary.DisplayName(),
		},
		YAxisSecondary: chart.YAxis{
			Name: secondary.DisplayName(),
		},
	}

	for _, s := range left {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    s.name + " " + primary.DisplayName(),
			XValues: s.xs,
			YValues: s.ys,
		})
	}
	for _, s := range right {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    s.name + " " + secondary.DisplayName(),
			XValues: s.xs,
			YValues: s.ys,
			YAxis:   chart.YAxisSecondary,
			Style: chart.Style{
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return r.writeChart(&graph, filename)
}
