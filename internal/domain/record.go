package domain

import (
	"fmt"
	"time"
)

// Record is one (country, date) observation from the OWID dataset.
// Nil numeric fields mean the value was not reported for that day.
type Record struct {
	ISOCode  string
	Location string
	Date     time.Time

	TotalCases                 *float64
	NewCases                   *float64
	TotalDeaths                *float64
	NewDeaths                  *float64
	TotalVaccinations          *float64
	PeopleVaccinatedPerHundred *float64

	// DeathRate is derived during analysis, never read from the CSV.
	DeathRate *float64
}

// Dataset is an ordered collection of records. After cleaning, records are
// sorted by (Location, Date) and (ISOCode, Date) pairs are unique.
type Dataset []Record

// Metric names a numeric column of the dataset, matching the OWID CSV header.
type Metric string

const (
	MetricTotalCases                 Metric = "total_cases"
	MetricNewCases                   Metric = "new_cases"
	MetricTotalDeaths                Metric = "total_deaths"
	MetricNewDeaths                  Metric = "new_deaths"
	MetricTotalVaccinations          Metric = "total_vaccinations"
	MetricPeopleVaccinatedPerHundred Metric = "people_vaccinated_per_hundred"
	MetricDeathRate                  Metric = "death_rate"
)

var metricDisplayNames = map[Metric]string{
	MetricTotalCases:                 "Total Cases",
	MetricNewCases:                   "New Cases",
	MetricTotalDeaths:                "Total Deaths",
	MetricNewDeaths:                  "New Deaths",
	MetricTotalVaccinations:          "Total Vaccinations",
	MetricPeopleVaccinatedPerHundred: "People Vaccinated Per Hundred",
	MetricDeathRate:                  "Death Rate",
}

// ParseMetric validates a metric name from configuration.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := metricDisplayNames[m]; !ok {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}

// DisplayName returns the human-readable label for chart titles and tables.
func (m Metric) DisplayName() string {
	if name, ok := metricDisplayNames[m]; ok {
		return name
	}
	return string(m)
}

// Value returns a pointer to the metric's value in r, or nil when the metric
// is missing or unknown.
func (r *Record) Value(m Metric) *float64 {
	switch m {
	case MetricTotalCases:
		return r.TotalCases
	case MetricNewCases:
		return r.NewCases
	case MetricTotalDeaths:
		return r.TotalDeaths
	case MetricNewDeaths:
		return r.NewDeaths
	case MetricTotalVaccinations:
		return r.TotalVaccinations
	case MetricPeopleVaccinatedPerHundred:
		return r.PeopleVaccinatedPerHundred
	case MetricDeathRate:
		return r.DeathRate
	default:
		return nil
	}
}

// fillableFields lists the per-row metric slots the fill policies operate on.
// DeathRate is excluded: it is derived after cleaning.
func fillableFields(r *Record) []**float64 {
	return []**float64{
		&r.TotalCases,
		&r.NewCases,
		&r.TotalDeaths,
		&r.NewDeaths,
		&r.TotalVaccinations,
		&r.PeopleVaccinatedPerHundred,
	}
}

// MaxDate returns the latest date present in the dataset, or the zero time
// for an empty dataset.
func (ds Dataset) MaxDate() time.Time {
	var maxDate time.Time
	for i := range ds {
		if ds[i].Date.After(maxDate) {
			maxDate = ds[i].Date
		}
	}
	return maxDate
}
