// Package report prints the run summary: top-N ranking tables, the overall
// death rate, and row counts, formatted for standard output.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

// Summary is everything the reporter prints about a completed run.
type Summary struct {
	Source           string // "remote" or "local"
	RowsLoaded       int
	RowsFiltered     int
	Rankings         []domain.Ranking
	OverallDeathRate *float64
	GeneratedAt      time.Time
}

// Reporter writes formatted summaries to a writer (stdout in production).
type Reporter struct {
	w      io.Writer
	logger *slog.Logger
}

// New creates a Reporter.
func New(w io.Writer, logger *slog.Logger) *Reporter {
	return &Reporter{w: w, logger: logger}
}

// tableRow is the dataframe row shape for ranking tables.
type tableRow struct {
	Rank    int     `dataframe:"rank"`
	Country string  `dataframe:"country"`
	ISOCode string  `dataframe:"iso_code"`
	Value   float64 `dataframe:"value"`
}

// Write prints the summary. Empty rankings print a "no data" line instead of
// a table, so a run over an empty selection still reports cleanly.
func (r *Reporter) Write(s Summary) error {
	p := &printer{w: r.w}

	p.printf("=== COVID-19 Tracker Report ===\n")
	p.printf("Generated: %s\n", s.GeneratedAt.Format(time.RFC3339))
	p.printf("Source: %s (%d rows loaded, %d after filter)\n\n", s.Source, s.RowsLoaded, s.RowsFiltered)

	for _, ranking := range s.Rankings {
		p.printf("Top %d by %s:\n", len(ranking.Rows), ranking.Metric.DisplayName())
		if len(ranking.Rows) == 0 {
			p.printf("  no data\n\n")
			continue
		}
		rows := make([]tableRow, len(ranking.Rows))
		for i, row := range ranking.Rows {
			rows[i] = tableRow{
				Rank:    i + 1,
				Country: row.Location,
				ISOCode: row.ISOCode,
				Value:   row.Value,
			}
		}
		df := dataframe.LoadStructs(rows)
		p.printf("%v\n\n", df)
	}

	if s.OverallDeathRate != nil {
		p.printf("Overall death rate: %.2f%%\n", *s.OverallDeathRate*100)
	} else {
		p.printf("Overall death rate: no data\n")
	}

	return p.err
}

// printer accumulates the first write error so Write stays readable.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
