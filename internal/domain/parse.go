package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrNoData marks an operation that was skipped because its input dataset or
// series was empty. Callers treat it as a warning, not a failure.
var ErrNoData = errors.New("no data")

// dateLayout is the calendar date format used by the OWID CSV.
const dateLayout = "2006-01-02"

// requiredColumns must be present in the CSV header. iso_code is the geometry
// join key, location and date identify the observation.
var requiredColumns = []string{"iso_code", "location", "date"}

// ParseCSV decodes an OWID-format CSV stream into a Dataset.
//
// Parsing is lenient about values: unparsable numeric cells become nil and an
// unparsable or empty date leaves the zero time, so Clean can count and drop
// the row. Rows shorter than the header are skipped. Only a missing required
// header column or a structurally broken file is an error.
func ParseCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("csv header missing required column %q", col)
		}
	}

	var ds Dataset
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) < len(header) {
			continue
		}

		rec := Record{
			ISOCode:                    field(row, colIdx, "iso_code"),
			Location:                   field(row, colIdx, "location"),
			Date:                       parseDate(field(row, colIdx, "date")),
			TotalCases:                 parseFloatOrNil(field(row, colIdx, string(MetricTotalCases))),
			NewCases:                   parseFloatOrNil(field(row, colIdx, string(MetricNewCases))),
			TotalDeaths:                parseFloatOrNil(field(row, colIdx, string(MetricTotalDeaths))),
			NewDeaths:                  parseFloatOrNil(field(row, colIdx, string(MetricNewDeaths))),
			TotalVaccinations:          parseFloatOrNil(field(row, colIdx, string(MetricTotalVaccinations))),
			PeopleVaccinatedPerHundred: parseFloatOrNil(field(row, colIdx, string(MetricPeopleVaccinatedPerHundred))),
		}
		ds = append(ds, rec)
	}

	return ds, nil
}

func field(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseFloatOrNil parses a numeric cell. Empty or unparsable cells are nil,
// preserving the OWID "not reported" meaning.
func parseFloatOrNil(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
