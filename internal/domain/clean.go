package domain

import (
	"fmt"
	"sort"
	"strings"
)

// FillPolicy controls handling of missing numeric metrics during cleaning.
type FillPolicy string

const (
	// FillForward carries the last reported value forward within a country's
	// time series, matching how cumulative OWID columns behave between
	// reporting days.
	FillForward FillPolicy = "ffill"
	// FillZero substitutes 0 for every missing metric.
	FillZero FillPolicy = "zero"
	// FillDrop removes rows that report no metric at all.
	FillDrop FillPolicy = "drop"
)

// ParseFillPolicy validates a fill policy name from configuration.
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch p := FillPolicy(s); p {
	case FillForward, FillZero, FillDrop:
		return p, nil
	default:
		return "", fmt.Errorf("unknown fill policy %q", s)
	}
}

// CleanStats counts the repairs made during cleaning, for logging.
type CleanStats struct {
	Dropped int // rows removed: missing key fields, aggregates, or empty under FillDrop
	Deduped int // duplicate (ISOCode, Date) rows removed
	Filled  int // individual metric cells filled
}

// aggregatePrefix marks OWID synthetic aggregate rows (OWID_WRL, OWID_EUR, ...).
const aggregatePrefix = "OWID_"

// Clean prepares a raw parsed dataset for analysis: rows without the join key
// or a valid date are dropped, OWID aggregate pseudo-countries are removed,
// records are sorted by (Location, Date), duplicate (ISOCode, Date) pairs are
// collapsed to the first occurrence, and missing metrics are repaired per the
// fill policy.
func Clean(ds Dataset, policy FillPolicy) (Dataset, CleanStats) {
	var stats CleanStats

	kept := make(Dataset, 0, len(ds))
	for i := range ds {
		r := &ds[i]
		if r.ISOCode == "" || r.Location == "" || r.Date.IsZero() ||
			strings.HasPrefix(r.ISOCode, aggregatePrefix) {
			stats.Dropped++
			continue
		}
		if policy == FillDrop && allMetricsMissing(r) {
			stats.Dropped++
			continue
		}
		kept = append(kept, *r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Location != kept[j].Location {
			return kept[i].Location < kept[j].Location
		}
		return kept[i].Date.Before(kept[j].Date)
	})

	kept, stats.Deduped = dedupe(kept)
	stats.Filled = fill(kept, policy)

	return kept, stats
}

// dedupe removes records sharing (ISOCode, Date) with their predecessor,
// keeping the first occurrence. Requires the dataset to be sorted.
func dedupe(ds Dataset) (Dataset, int) {
	if len(ds) == 0 {
		return ds, 0
	}
	out := ds[:1]
	removed := 0
	for i := 1; i < len(ds); i++ {
		prev := &out[len(out)-1]
		if ds[i].ISOCode == prev.ISOCode && ds[i].Date.Equal(prev.Date) {
			removed++
			continue
		}
		out = append(out, ds[i])
	}
	return out, removed
}

// fill repairs missing metric cells in place and returns the number filled.
func fill(ds Dataset, policy FillPolicy) int {
	switch policy {
	case FillZero:
		return fillWith(ds, func(_ int, _ string) *float64 {
			zero := 0.0
			return &zero
		})
	case FillForward:
		return fillForward(ds)
	default:
		return 0
	}
}

func fillWith(ds Dataset, value func(slot int, location string) *float64) int {
	filled := 0
	for i := range ds {
		for slot, f := range fillableFields(&ds[i]) {
			if *f == nil {
				*f = value(slot, ds[i].Location)
				if *f != nil {
					filled++
				}
			}
		}
	}
	return filled
}

// fillForward carries the last seen value per metric within each country's
// series. Leading gaps (before a country's first report) stay nil.
func fillForward(ds Dataset) int {
	filled := 0
	var location string
	var last [6]*float64

	for i := range ds {
		if ds[i].Location != location {
			location = ds[i].Location
			last = [6]*float64{}
		}
		for slot, f := range fillableFields(&ds[i]) {
			if *f == nil {
				if last[slot] != nil {
					v := *last[slot]
					*f = &v
					filled++
				}
				continue
			}
			last[slot] = *f
		}
	}
	return filled
}

func allMetricsMissing(r *Record) bool {
	for _, f := range fillableFields(r) {
		if *f != nil {
			return false
		}
	}
	return true
}
