package report

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fptr(v float64) *float64 { return &v }

func sampleSummary() Summary {
	return Summary{
		Source:       "remote",
		RowsLoaded:   1000,
		RowsFiltered: 120,
		Rankings: []domain.Ranking{
			{
				Metric: domain.MetricTotalCases,
				Rows: []domain.RankingRow{
					{Location: "United States", ISOCode: "USA", Value: 20000000},
					{Location: "India", ISOCode: "IND", Value: 10300000},
				},
			},
			{
				Metric: domain.MetricDeathRate,
				Rows: []domain.RankingRow{
					{Location: "Chad", ISOCode: "TCD", Value: 0.20},
					{Location: "Kenya", ISOCode: "KEN", Value: 0.05},
				},
			},
		},
		OverallDeathRate: fptr(0.0175),
		GeneratedAt:      time.Date(2021, 6, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, newTestLogger())

	require.NoError(t, reporter.Write(sampleSummary()))
	out := buf.String()

	assert.Contains(t, out, "Generated: 2021-06-30T12:00:00Z")
	assert.Contains(t, out, "Source: remote (1000 rows loaded, 120 after filter)")
	assert.Contains(t, out, "Top 2 by Total Cases:")
	assert.Contains(t, out, "Top 2 by Death Rate:")
	assert.Contains(t, out, "United States")
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "Chad")
	assert.Contains(t, out, "Overall death rate: 1.75%")
}

func TestWrite_EmptyRanking(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, newTestLogger())

	s := Summary{
		Source:   "local",
		Rankings: []domain.Ranking{{Metric: domain.MetricDeathRate}},
	}
	require.NoError(t, reporter.Write(s))

	assert.Contains(t, buf.String(), "Top 0 by Death Rate:")
	assert.Contains(t, buf.String(), "no data")
}

func TestWrite_NilDeathRate(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, newTestLogger())

	require.NoError(t, reporter.Write(Summary{Source: "local"}))
	assert.Contains(t, buf.String(), "Overall death rate: no data")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestWrite_WriterError(t *testing.T) {
	reporter := New(failingWriter{}, newTestLogger())
	err := reporter.Write(sampleSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipe closed")
}
