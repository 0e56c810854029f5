package dataset

import (
	"strings"
	"time"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

const monthLayout = "2006-01"

// MonthlySeries groups the filtered cases by event month and returns ordered
// period labels with their counts. Months between the first and last observed
// event are filled with explicit zeros so derivative math downstream sees
// uniform spacing. Cases without an event date are ignored.
func MonthlySeries(ds *domain.Dataset, f domain.CaseFilter) ([]string, []float64) {
	counts := make(map[string]float64)
	var first, last time.Time

	for _, c := range FilterCases(ds.Cases, f) {
		if c.EventDate == nil {
			continue
		}
		month := time.Date(c.EventDate.Year(), c.EventDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month.Format(monthLayout)]++
		if first.IsZero() || month.Before(first) {
			first = month
		}
		if last.IsZero() || month.After(last) {
			last = month
		}
	}

	if len(counts) == 0 {
		return nil, nil
	}

	var periods []string
	var series []float64
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		label := m.Format(monthLayout)
		periods = append(periods, label)
		series = append(series, counts[label])
	}
	return periods, series
}

// FilterCases returns the cases whose drug/reaction fields contain the
// filter substrings, case-insensitive.
func FilterCases(cases []domain.CaseReport, f domain.CaseFilter) []domain.CaseReport {
	if f.Drug == "" && f.Reaction == "" {
		return cases
	}
	drug := strings.ToLower(f.Drug)
	reaction := strings.ToLower(f.Reaction)

	var out []domain.CaseReport
	for _, c := range cases {
		if drug != "" && !strings.Contains(strings.ToLower(c.Drug), drug) {
			continue
		}
		if reaction != "" && !strings.Contains(strings.ToLower(c.Reaction), reaction) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Period returns the observation window covered by the dataset's dated cases.
func Period(ds *domain.Dataset) domain.TimePeriod {
	var start, end time.Time
	for _, c := range ds.Cases {
		if c.EventDate == nil {
			continue
		}
		if start.IsZero() || c.EventDate.Before(start) {
			start = *c.EventDate
		}
		if end.IsZero() || c.EventDate.After(end) {
			end = *c.EventDate
		}
	}
	duration := 0
	if !start.IsZero() {
		duration = int(end.Sub(start).Hours() / 24)
	}
	return domain.TimePeriod{Start: start, End: end, Duration: duration}
}
