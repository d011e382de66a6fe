// Command tracker downloads the OWID COVID-19 dataset (falling back to a
// local cached copy), cleans and filters it, and produces summary statistics,
// time-series charts, and a world choropleth map.
//
// Configuration comes from the environment (optionally a .env file); see
// internal/config. With -interactive, a menu on stdin re-renders individual
// charts after the initial run.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/covid-tracker/internal/adapter/geo"
	"github.com/couchcryptid/covid-tracker/internal/adapter/httpadapter"
	"github.com/couchcryptid/covid-tracker/internal/adapter/owid"
	"github.com/couchcryptid/covid-tracker/internal/config"
	"github.com/couchcryptid/covid-tracker/internal/domain"
	"github.com/couchcryptid/covid-tracker/internal/observability"
	"github.com/couchcryptid/covid-tracker/internal/pipeline"
	"github.com/couchcryptid/covid-tracker/internal/render"
	"github.com/couchcryptid/covid-tracker/internal/report"
)

func main() {
	interactive := flag.Bool("interactive", false, "open a chart menu on stdin after the run")
	flag.Parse()

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics, *interactive); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, interactive bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Geometry is reference data; a missing file only disables the map.
	world, err := geo.Load(cfg.GeometryPath)
	if err != nil {
		logger.Warn("world geometry unavailable, choropleth disabled",
			"path", cfg.GeometryPath, "error", err)
		world = nil
	}

	client := owid.NewClient(cfg.DataURL, cfg.FetchTimeout, logger, metrics)
	loader := owid.NewLoader(client, cfg.LocalPath, logger)

	renderer, err := render.New(cfg.OutputDir, world, logger)
	if err != nil {
		return err
	}
	reporter := report.New(os.Stdout, logger)

	p := pipeline.New(loader, renderer, reporter, pipeline.Options{
		Selection:  domain.NewSelection(cfg.Countries),
		StartDate:  cfg.StartDate,
		EndDate:    cfg.EndDate,
		FillPolicy: cfg.FillPolicy,
		MapMetric:  cfg.MapMetric,
		TopN:       cfg.TopN,
	}, logger, metrics)

	srv := startMetricsServer(cfg, p, logger)

	result, err := p.Run(ctx)
	if err != nil {
		shutdownMetricsServer(srv, logger)
		return err
	}

	if interactive {
		menu(ctx, renderer, result, logger)
	}

	shutdownMetricsServer(srv, logger)
	return nil
}

func startMetricsServer(cfg *config.Config, ready httpadapter.ReadinessChecker, logger *slog.Logger) *httpadapter.Server {
	if cfg.MetricsAddr == "" {
		return nil
	}
	srv := httpadapter.NewServer(cfg.MetricsAddr, ready, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener error", "error", err)
		}
	}()
	return srv
}

func shutdownMetricsServer(srv *httpadapter.Server, logger *slog.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("metrics listener shutdown error", "error", err)
	}
}

// menu re-renders individual charts on demand until EOF, "5", or cancellation.
func menu(ctx context.Context, renderer *render.Renderer, result *pipeline.Result, logger *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\nChart menu:")
		fmt.Println("1. Total Cases Over Time")
		fmt.Println("2. Total Deaths Over Time")
		fmt.Println("3. New Cases vs Total Vaccinations")
		fmt.Println("4. New Cases vs New Deaths")
		fmt.Println("5. Exit")
		fmt.Print("Enter your choice (1-5): ")

		if ctx.Err() != nil || !scanner.Scan() {
			fmt.Println()
			return
		}

		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			err = renderer.TimeSeries(result.Filtered, domain.MetricTotalCases, "Total Cases Over Time", pipeline.FileTotalCases)
		case "2":
			err = renderer.TimeSeries(result.Filtered, domain.MetricTotalDeaths, "Total Deaths Over Time", pipeline.FileTotalDeaths)
		case "3":
			err = renderer.DualAxis(result.Filtered, domain.MetricNewCases, domain.MetricTotalVaccinations,
				"Daily New Cases & Total Vaccinations", pipeline.FileCasesVsVaccinations)
		case "4":
			err = renderer.Overlay(result.Filtered, "New Cases vs New Deaths Over Time", pipeline.FileCasesVsDeaths)
		case "5":
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
			continue
		}
		if err != nil {
			logger.Warn("chart render failed", "error", err)
		}
	}
}
