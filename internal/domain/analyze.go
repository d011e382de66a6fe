package domain

import "sort"

// WithDeathRate computes the per-row death rate (total_deaths / total_cases)
// across the dataset and returns it. The rate is nil when cases are missing
// or zero, when deaths are missing, or when the quotient falls outside [0, 1]
// (corrupt source rows; treated as unreported rather than propagated).
func WithDeathRate(ds Dataset) Dataset {
	for i := range ds {
		ds[i].DeathRate = deathRate(ds[i].TotalCases, ds[i].TotalDeaths)
	}
	return ds
}

func deathRate(cases, deaths *float64) *float64 {
	if cases == nil || deaths == nil || *cases == 0 {
		return nil
	}
	rate := *deaths / *cases
	if rate < 0 || rate > 1 {
		return nil
	}
	return &rate
}

// LatestByCountry reduces the dataset to each country's most recent record,
// ordered alphabetically by location. The input does not need to be sorted.
func LatestByCountry(ds Dataset) []Record {
	latest := make(map[string]Record, 64)
	for i := range ds {
		cur, ok := latest[ds[i].ISOCode]
		if !ok || ds[i].Date.After(cur.Date) {
			latest[ds[i].ISOCode] = ds[i]
		}
	}

	out := make([]Record, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}

// RankingRow is one country's entry in a ranking table.
type RankingRow struct {
	Location string
	ISOCode  string
	Value    float64
}

// Ranking is an ordered top-N table for one metric.
type Ranking struct {
	Metric Metric
	Rows   []RankingRow
}

// TopByMetric ranks the given country snapshots by a metric, descending, and
// keeps the first n. Countries without a value for the metric are excluded.
// Ties are broken alphabetically by location, so the ordering is
// deterministic for identical input.
func TopByMetric(latest []Record, m Metric, n int) Ranking {
	rows := make([]RankingRow, 0, len(latest))
	for i := range latest {
		v := latest[i].Value(m)
		if v == nil {
			continue
		}
		rows = append(rows, RankingRow{
			Location: latest[i].Location,
			ISOCode:  latest[i].ISOCode,
			Value:    *v,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Location < rows[j].Location
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return Ranking{Metric: m, Rows: rows}
}

// OverallDeathRate computes deaths/cases summed across the given country
// snapshots. Countries missing either figure are excluded from both sums.
// Returns nil when no country contributes.
func OverallDeathRate(latest []Record) *float64 {
	var cases, deaths float64
	counted := false
	for i := range latest {
		if latest[i].TotalCases == nil || latest[i].TotalDeaths == nil {
			continue
		}
		cases += *latest[i].TotalCases
		deaths += *latest[i].TotalDeaths
		counted = true
	}
	if !counted || cases == 0 {
		return nil
	}
	rate := deaths / cases
	return &rate
}
