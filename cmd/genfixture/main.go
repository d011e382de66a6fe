// Command genfixture trims a full OWID CSV download into a small fixture for
// the test suites, keeping only the selected countries and date range plus
// the columns the tracker consumes. It prints per-country row counts so test
// assertions can be updated against the fixture.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -in owid-covid-data.csv \
//	  -out internal/adapter/owid/testdata/owid_sample.csv \
//	  -countries "Kenya,Chad,Brazil" \
//	  -start 2021-01-01 -end 2021-03-31
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

// keepColumns are written to the fixture, in this order.
var keepColumns = []string{
	"iso_code", "location", "date",
	"total_cases", "new_cases",
	"total_deaths", "new_deaths",
	"total_vaccinations", "people_vaccinated_per_hundred",
}

const dateLayout = "2006-01-02"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "full OWID CSV to read")
	out := flag.String("out", "", "fixture CSV to write")
	countries := flag.String("countries", "", "comma-separated country names or ISO-3 codes")
	start := flag.String("start", "", "inclusive start date (YYYY-MM-DD)")
	end := flag.String("end", "", "inclusive end date (YYYY-MM-DD)")
	flag.Parse()

	if *in == "" || *out == "" || *countries == "" {
		flag.Usage()
		return errors.New("missing required flags: -in, -out, -countries")
	}

	startDate, endDate, err := parseDates(*start, *end)
	if err != nil {
		return err
	}
	sel := domain.NewSelection(strings.Split(*countries, ","))

	counts, total, err := writeFixture(*in, *out, sel, startDate, endDate)
	if err != nil {
		return err
	}

	log.Printf("wrote fixture: %s (%d rows)", *out, total)
	printCounts(counts)
	return nil
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	var startDate, endDate time.Time
	var err error
	if start != "" {
		if startDate, err = time.Parse(dateLayout, start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -start: %w", err)
		}
	}
	if end != "" {
		if endDate, err = time.Parse(dateLayout, end); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -end: %w", err)
		}
	}
	return startDate, endDate, nil
}

func writeFixture(inPath, outPath string, sel domain.Selection, start, end time.Time) (map[string]int, int, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return nil, 0, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, 0, err
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return nil, 0, fmt.Errorf("create output: %w", err)
	}
	defer outFile.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	writer := csv.NewWriter(outFile)

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{"iso_code", "location", "date"} {
		if _, ok := colIdx[col]; !ok {
			return nil, 0, fmt.Errorf("input missing column %q", col)
		}
	}

	if err := writer.Write(keepColumns); err != nil {
		return nil, 0, err
	}

	counts := map[string]int{}
	total := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		rec := domain.Record{
			ISOCode:  get(row, colIdx, "iso_code"),
			Location: get(row, colIdx, "location"),
		}
		if !sel.Matches(&rec) {
			continue
		}
		date, err := time.Parse(dateLayout, get(row, colIdx, "date"))
		if err != nil {
			continue
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && date.After(end) {
			continue
		}

		outRow := make([]string, len(keepColumns))
		for i, col := range keepColumns {
			outRow[i] = get(row, colIdx, col)
		}
		if err := writer.Write(outRow); err != nil {
			return nil, 0, err
		}
		counts[rec.Location]++
		total++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, 0, err
	}
	return counts, total, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func printCounts(counts map[string]int) {
	locations := make([]string, 0, len(counts))
	for loc := range counts {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	for _, loc := range locations {
		log.Printf("  %s: %d rows", loc, counts[loc])
	}
}
