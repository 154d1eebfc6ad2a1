package portfolio

import (
	"sort"
	"time"

	"swingtrader/internal/domain"
)

// UnionCalendar builds the universal timeline for a set of assets: the union
// of every asset's trading dates, as a strictly increasing sequence of unique
// dates. Every per-asset equity curve is projected onto this calendar before
// curves are summed.
func UnionCalendar(assets map[string][]*domain.Bar) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, bars := range assets {
		for _, bar := range bars {
			seen[bar.Date] = struct{}{}
		}
	}
	calendar := make([]time.Time, 0, len(seen))
	for d := range seen {
		calendar = append(calendar, d)
	}
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].Before(calendar[j]) })
	return calendar
}

// Project reindexes a value series observed at dates onto calendar using
// forward-fill: calendar dates before the first observation take baseline
// (the asset has not started trading, its allocation sits flat), dates at or
// after an observation carry the most recent observed value forward (the
// asset keeps its last marked value after its data ends).
//
// dates must be strictly increasing and len(values) == len(dates).
func Project(dates []time.Time, values []float64, calendar []time.Time, baseline float64) []float64 {
	out := make([]float64, len(calendar))
	j := 0
	current := baseline
	for i, d := range calendar {
		for j < len(dates) && !dates[j].After(d) {
			current = values[j]
			j++
		}
		out[i] = current
	}
	return out
}
