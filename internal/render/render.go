// Package render produces the tracker's chart images: per-country time
// series, a dual-axis vaccination overlay, a cases-vs-deaths overlay, and a
// world choropleth. All output is PNG files under a single output directory.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/covid-tracker/internal/adapter/geo"
	"github.com/couchcryptid/covid-tracker/internal/domain"
)

const (
	chartWidth  = 1280
	chartHeight = 720
)

// Renderer writes chart images into an output directory. A nil world is
// allowed; it only disables the choropleth.
type Renderer struct {
	outputDir string
	world     *geo.World
	logger    *slog.Logger
}

// New creates a Renderer, ensuring the output directory exists.
func New(outputDir string, world *geo.World, logger *slog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Renderer{
		outputDir: outputDir,
		world:     world,
		logger:    logger,
	}, nil
}

// series is one country's line on a chart.
type series struct {
	name string
	xs   []time.Time
	ys   []float64
}

// buildSeries groups the dataset by country in first-seen order, keeping only
// rows where the metric is present. Series with fewer than two points are
// dropped; a line needs two.
func buildSeries(ds domain.Dataset, metric domain.Metric) []series {
	byLocation := map[string]int{}
	var all []series

	for i := range ds {
		r := &ds[i]
		v := r.Value(metric)
		if v == nil {
			continue
		}
		idx, ok := byLocation[r.Location]
		if !ok {
			idx = len(all)
			byLocation[r.Location] = idx
			all = append(all, series{name: r.Location})
		}
		all[idx].xs = append(all[idx].xs, r.Date)
		all[idx].ys = append(all[idx].ys, *v)
	}

	out := all[:0]
	for _, s := range all {
		if len(s.xs) >= 2 {
			out = append(out, s)
		}
	}
	return out
}

func (r *Renderer) path(filename string) string {
	return filepath.Join(r.outputDir, filename)
}

// writeChart renders a configured chart to a PNG file.
func (r *Renderer) writeChart(graph *chart.Chart, filename string) error {
	path := r.path(filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart %s: %w", filename, err)
	}
	r.logger.Info("chart written", "path", path)
	return nil
}
