package owid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

// ErrNoSource means neither the remote feed nor the local fallback file could
// provide a dataset. The run cannot proceed.
var ErrNoSource = errors.New("no data source available")

// Source labels for the value Loader.Load reports back.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Fetcher downloads the raw dataset bytes.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Loader obtains and parses the dataset: remote first, caching each download
// that parses to localPath for future offline runs, falling back to the
// cached file on any fetch or parse failure.
type Loader struct {
	fetcher   Fetcher
	localPath string
	logger    *slog.Logger
}

// NewLoader creates a Loader around a fetcher and a local fallback path.
func NewLoader(fetcher Fetcher, localPath string, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher:   fetcher,
		localPath: localPath,
		logger:    logger,
	}
}

// Load returns the parsed dataset and which source supplied it. It fails only
// when both sources are unavailable, wrapping ErrNoSource.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, string, error) {
	data, fetchErr := l.fetcher.Fetch(ctx)
	if fetchErr == nil {
		ds, err := domain.ParseCSV(bytes.NewReader(data))
		if err == nil {
			// Only a download that parsed replaces the cache; an unparsable
			// body must leave the previous good copy for the fallback below.
			if err := l.cache(data); err != nil {
				// The download is still usable; a failed cache write only
				// hurts the next offline run.
				l.logger.Warn("caching dataset failed", "path", l.localPath, "error", err)
			}
			return ds, SourceRemote, nil
		}
		fetchErr = err
	}

	l.logger.Warn("remote load failed, trying local file", "path", l.localPath, "error", fetchErr)

	ds, localErr := l.loadLocal()
	if localErr != nil {
		return nil, "", fmt.Errorf("%w: remote: %v; local: %v", ErrNoSource, fetchErr, localErr)
	}
	return ds, SourceLocal, nil
}

func (l *Loader) loadLocal() (domain.Dataset, error) {
	f, err := os.Open(l.localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := domain.ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse local dataset: %w", err)
	}
	return ds, nil
}

func (l *Loader) cache(data []byte) error {
	if dir := filepath.Dir(l.localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(l.localPath, data, 0o600)
}
