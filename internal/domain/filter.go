package domain

import (
	"strings"
	"time"
)

// Selection is a set of requested countries. Entries are matched
// case-insensitively against both Location and ISOCode, so "Kenya" and "KEN"
// select the same rows. An empty selection matches nothing.
type Selection map[string]struct{}

// NewSelection builds a Selection from country names and/or ISO-3 codes.
// Blank entries are ignored.
func NewSelection(terms []string) Selection {
	sel := make(Selection, len(terms))
	for _, t := range terms {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		sel[t] = struct{}{}
	}
	return sel
}

// Matches reports whether the record's country is in the selection.
func (s Selection) Matches(r *Record) bool {
	if len(s) == 0 {
		return false
	}
	if _, ok := s[strings.ToUpper(r.Location)]; ok {
		return true
	}
	_, ok := s[strings.ToUpper(r.ISOCode)]
	return ok
}

// Filter returns the records whose country is in the selection and whose date
// falls in [start, end] inclusive, preserving the input order. A zero end
// means "through the latest date present in the dataset". A zero-row result
// is valid; downstream stages skip chart generation for it.
func Filter(ds Dataset, sel Selection, start, end time.Time) Dataset {
	if end.IsZero() {
		end = ds.MaxDate()
	}

	out := make(Dataset, 0)
	for i := range ds {
		r := &ds[i]
		if !sel.Matches(r) {
			continue
		}
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, *r)
	}
	return out
}
