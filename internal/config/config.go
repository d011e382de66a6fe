package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

// Config holds all tracker settings, populated from environment variables.
type Config struct {
	DataURL      string
	LocalPath    string
	GeometryPath string
	OutputDir    string

	Countries []string
	StartDate time.Time
	EndDate   time.Time // zero means "through the latest date in the dataset"

	FillPolicy   domain.FillPolicy
	MapMetric    domain.Metric
	TopN         int
	FetchTimeout time.Duration

	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the metrics/health listener
}

const dateLayout = "2006-01-02"

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeoutStr := envOrDefault("FETCH_TIMEOUT", "10s")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	startDate, err := parseDateEnv("START_DATE", "2021-01-01")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDateEnv("END_DATE", "")
	if err != nil {
		return nil, err
	}

	fillPolicy, err := domain.ParseFillPolicy(envOrDefault("FILL_POLICY", string(domain.FillForward)))
	if err != nil {
		return nil, fmt.Errorf("invalid FILL_POLICY: %w", err)
	}

	mapMetric, err := domain.ParseMetric(envOrDefault("MAP_METRIC", string(domain.MetricTotalCases)))
	if err != nil {
		return nil, fmt.Errorf("invalid MAP_METRIC: %w", err)
	}

	topN, err := parseTopN()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataURL:      envOrDefault("DATA_URL", "https://covid.ourworldindata.org/data/owid-covid-data.csv"),
		LocalPath:    envOrDefault("LOCAL_PATH", "owid-covid-data.csv"),
		GeometryPath: envOrDefault("GEOMETRY_PATH", "data/world.geojson"),
		OutputDir:    envOrDefault("OUTPUT_DIR", "charts"),
		Countries:    parseList(envOrDefault("COUNTRIES", "United States,India,Brazil")),
		StartDate:    startDate,
		EndDate:      endDate,
		FillPolicy:   fillPolicy,
		MapMetric:    mapMetric,
		TopN:         topN,
		FetchTimeout: fetchTimeout,
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:  os.Getenv("METRICS_ADDR"),
	}

	if cfg.DataURL == "" {
		return nil, errors.New("DATA_URL is required")
	}
	if cfg.LocalPath == "" {
		return nil, errors.New("LOCAL_PATH is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if !cfg.EndDate.IsZero() && cfg.EndDate.Before(cfg.StartDate) {
		return nil, errors.New("END_DATE is before START_DATE")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseList splits a comma-separated value, trimming whitespace and dropping
// blank entries.
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDateEnv parses a YYYY-MM-DD env var. An empty value (after applying
// the default) yields the zero time.
func parseDateEnv(key, def string) (time.Time, error) {
	s := envOrDefault(key, def)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func parseTopN() (int, error) {
	s := envOrDefault("TOP_N", "5")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid TOP_N")
	}
	return n, nil
}
