// Package pipeline orchestrates one tracker run: load, clean, filter,
// analyze, render, report. The flow is strictly linear and executes once per
// invocation; the only retry anywhere is the loader's local-file fallback.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/covid-tracker/internal/domain"
	"github.com/couchcryptid/covid-tracker/internal/observability"
	"github.com/couchcryptid/covid-tracker/internal/report"
)

// Loader obtains the parsed dataset and reports which source supplied it.
type Loader interface {
	Load(ctx context.Context) (domain.Dataset, string, error)
}

// ChartSet renders the run's chart images. Implementations return
// domain.ErrNoData for charts whose input series is empty; the pipeline
// logs a warning and moves on.
type ChartSet interface {
	TimeSeries(ds domain.Dataset, metric domain.Metric, title, filename string) error
	DualAxis(ds domain.Dataset, primary, secondary domain.Metric, title, filename string) error
	Overlay(ds domain.Dataset, title, filename string) error
	Choropleth(latest []domain.Record, metric domain.Metric, title, filename string) error
}

// Reporter prints the run summary.
type Reporter interface {
	Write(s report.Summary) error
}

// Options are the analysis parameters for a run.
type Options struct {
	Selection  domain.Selection
	StartDate  time.Time
	EndDate    time.Time // zero means "through the dataset's max date"
	FillPolicy domain.FillPolicy
	MapMetric  domain.Metric
	TopN       int
}

// Pipeline wires the stages together with logging and metrics.
type Pipeline struct {
	loader   Loader
	charts   ChartSet
	reporter Reporter
	opts     Options
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(loader Loader, charts ChartSet, reporter Reporter, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:   loader,
		charts:   charts,
		reporter: reporter,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
	}
}

// Result holds the datasets a completed run produced, for callers that want
// to re-render charts (interactive mode) or inspect the analysis.
type Result struct {
	Source   string
	Cleaned  domain.Dataset
	Filtered domain.Dataset
	Latest   []domain.Record
	Rankings []domain.Ranking
}

// CheckReadiness returns nil once a run has completed, or an error describing
// why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("run has not completed yet")
	}
	return nil
}

// Run executes the pipeline once. Loader failure (both sources unavailable)
// and chart I/O failures are fatal; empty filter results and unjoinable
// geometry are not.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	raw, source, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	p.metrics.RowsLoaded.Add(float64(len(raw)))
	p.logger.Info("dataset loaded", "source", source, "rows", len(raw))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, stats := domain.Clean(raw, p.opts.FillPolicy)
	p.metrics.RowsDropped.Add(float64(stats.Dropped))
	p.metrics.RowsDeduped.Add(float64(stats.Deduped))
	p.metrics.ValuesFilled.Add(float64(stats.Filled))
	p.logger.Info("dataset cleaned",
		"rows", len(cleaned),
		"dropped", stats.Dropped,
		"deduped", stats.Deduped,
		"filled", stats.Filled,
		"policy", p.opts.FillPolicy,
	)

	cleaned = domain.WithDeathRate(cleaned)

	filtered := domain.Filter(cleaned, p.opts.Selection, p.opts.StartDate, p.opts.EndDate)
	p.metrics.RowsSelected.Add(float64(len(filtered)))
	if len(filtered) == 0 {
		p.logger.Warn("filter matched no rows; time-series charts will be skipped",
			"countries", len(p.opts.Selection))
	} else {
		p.logger.Info("dataset filtered", "rows", len(filtered))
	}

	latest := domain.LatestByCountry(cleaned)
	rankings := []domain.Ranking{
		domain.TopByMetric(latest, domain.MetricTotalCases, p.opts.TopN),
		domain.TopByMetric(latest, domain.MetricDeathRate, p.opts.TopN),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.renderCharts(filtered, latest); err != nil {
		return nil, err
	}

	summary := report.Summary{
		Source:           source,
		RowsLoaded:       len(raw),
		RowsFiltered:     len(filtered),
		Rankings:         rankings,
		OverallDeathRate: domain.OverallDeathRate(latest),
		GeneratedAt:      domain.Now(),
	}
	if err := p.reporter.Write(summary); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	p.ready.Store(true)
	return &Result{
		Source:   source,
		Cleaned:  cleaned,
		Filtered: filtered,
		Latest:   latest,
		Rankings: rankings,
	}, nil
}

// Chart output filenames, shared with the interactive menu in cmd/tracker.
const (
	FileTotalCases          = "total_cases_over_time.png"
	FileTotalDeaths         = "total_deaths_over_time.png"
	FileVaccinations        = "total_vaccinations_over_time.png"
	FileCasesVsVaccinations = "cases_vs_vaccinations.png"
	FileCasesVsDeaths       = "cases_vs_deaths.png"
	FileChoropleth          = "choropleth.png"
)

func (p *Pipeline) renderCharts(filtered domain.Dataset, latest []domain.Record) error {
	charts := []struct {
		file   string
		render func() error
	}{
		{FileTotalCases, func() error {
			return p.charts.TimeSeries(filtered, domain.MetricTotalCases, "Total Cases Over Time", FileTotalCases)
		}},
		{FileTotalDeaths, func() error {
			return p.charts.TimeSeries(filtered, domain.MetricTotalDeaths, "Total Deaths Over Time", FileTotalDeaths)
		}},
		{FileVaccinations, func() error {
			return p.charts.TimeSeries(filtered, domain.MetricTotalVaccinations, "Total Vaccinations Over Time", FileVaccinations)
		}},
		{FileCasesVsVaccinations, func() error {
			return p.charts.DualAxis(filtered, domain.MetricNewCases, domain.MetricTotalVaccinations,
				"Daily New Cases & Total Vaccinations", FileCasesVsVaccinations)
		}},
		{FileCasesVsDeaths, func() error {
			return p.charts.Overlay(filtered, "New Cases vs New Deaths Over Time", FileCasesVsDeaths)
		}},
		{FileChoropleth, func() error {
			return p.charts.Choropleth(latest, p.opts.MapMetric,
				"Global COVID-19 "+p.opts.MapMetric.DisplayName(), FileChoropleth)
		}},
	}

	for _, c := range charts {
		err := c.render()
		switch {
		case errors.Is(err, domain.ErrNoData):
			p.logger.Warn("chart skipped, no data", "file", c.file)
			p.metrics.ChartsSkipped.Inc()
		case err != nil:
			return fmt.Errorf("render %s: %w", c.file, err)
		default:
			p.metrics.ChartsRendered.Inc()
		}
	}
	return nil
}
