// Package domain models the Our World in Data (OWID) COVID-19 dataset.
//
// # Data Source
//
// Observations come from the OWID compiled CSV, published at
// https://covid.ourworldindata.org/data/owid-covid-data.csv. Each row is one
// (country, date) observation. Only the columns this tracker consumes are
// modeled; the full file carries dozens more.
//
// # OWID Data Conventions
//
// Country identity:
//
//	iso_code is the ISO 3166-1 alpha-3 country code and is the join key for
//	geometry lookups. location is the human-readable country name.
//	Continental and global aggregates use synthetic codes prefixed "OWID_"
//	(OWID_WRL, OWID_EUR, ...); these are not countries and are removed
//	during cleaning so they cannot dominate rankings.
//
// Dates:
//
//	date is an ISO calendar date, "2006-01-02". Rows for a country form a
//	daily time series, but gaps are common, especially for vaccination
//	columns which are only reported on update days.
//
// Missing values:
//
//	Empty cells mean "not reported", not zero. A nil pointer field preserves
//	that distinction; the fill policy applied during cleaning decides whether
//	gaps are carried forward, zeroed, or dropped.
//
// # Derived Metrics
//
// The death rate is total_deaths / total_cases at a point in time. It is nil
// when cases are missing or zero, and values outside [0, 1] (which can only
// arise from corrupt source rows) are treated as missing rather than reported.
package domain
