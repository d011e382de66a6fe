package render

import (
	"github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

// TimeSeries renders one line per country for a single metric. Returns
// domain.ErrNoData when no country has enough points to draw.
func (r *Renderer) TimeSeries(ds domain.Dataset, metric domain.Metric, title, filename string) error {
	lines := buildSeries(ds, metric)
	if len(lines) == 0 {
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
			Name: metric.DisplayName(),
		},
	}
	for _, s := range lines {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    s.name,
			XValues: s.xs,
			YValues: s.ys,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return r.writeChart(&graph, filename)
}

// Overlay renders new cases (solid) against new deaths (dashed) per country
// on a shared axis.
func (r *Renderer) Overlay(ds domain.Dataset, title, filename string) error {
	cases := buildSeries(ds, domain.MetricNewCases)
	deaths := buildSeries(ds, domain.MetricNewDeaths)
	if len(cases) == 0 && len(deaths) == 0 {
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
			Name: "Count",
		},
	}
	for _, s := range cases {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    s.name + " New Cases",
			XValues: s.xs,
			YValues: s.ys,
		})
	}
	for _, s := range deaths {
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    s.name + " New Deaths",
			XValues: s.xs,
			YValues: s.ys,
			Style: chart.Style{
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return r.writeChart(&graph, filename)
}
