package cost

import (
	"sort"
	"time"
)

// ToDate sums every cost amount regardless of category or deduction type.
func ToDate(costs []Cost) float64 {
	var total float64
	for _, c := range costs {
		total += c.Amount
	}
	return total
}

// SortByDate returns a copy of costs ordered by economic date, oldest first.
// Entries on the same date keep their input order.
func SortByDate(costs []Cost) []Cost {
	sorted := make([]Cost, len(costs))
	copy(sorted, costs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// DateSpan returns the earliest and latest economic dates. ok is false for
// an empty slice.
func DateSpan(costs []Cost) (earliest, latest time.Time, ok bool) {
	if len(costs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	sorted := SortByDate(costs)
	return sorted[0].Date, sorted[len(sorted)-1].Date, true
}
