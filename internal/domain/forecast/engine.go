// Package forecast derives burn rate, completion projections and insight
// text from a project's ledgers, and versions the snapshots that record them.
package forecast

import (
	"math"
	"time"

	"github.com/rpggio/budgetline/internal/domain/cost"
)

const hoursPerDay = 24

// BurnRate returns average spend per day across the economic date span of
// costs. Fewer than two entries yields 0. The span is floored at one day.
func BurnRate(costs []cost.Cost, costToDate float64) float64 {
	if len(costs) < 2 {
		return 0
	}
	earliest, latest, _ := cost.DateSpan(costs)
	elapsed := math.Max(1, latest.Sub(earliest).Hours()/hoursPerDay)
	return costToDate / elapsed
}

// ProjectedTotal is costToDate + remainingBudget, which equals the total
// budget whenever remaining was derived from it.
func ProjectedTotal(costToDate, remainingBudget float64) float64 {
	return costToDate + remainingBudget
}

// ProjectCompletion projects spend through endDate at the current burn rate.
func ProjectCompletion(endDate *time.Time, today time.Time, costToDate, burnRate, totalBudget float64) Completion {
	if endDate == nil || endDate.IsZero() {
		return Completion{Status: CompletionNoEndDate}
	}

	end := truncateDay(*endDate)
	now := truncateDay(today)
	if !end.After(now) {
		return Completion{Status: CompletionCompleted}
	}

	days := int(math.Ceil(end.Sub(now).Hours() / hoursPerDay))
	projected := costToDate + burnRate*float64(days)
	return Completion{
		Status:             CompletionProjected,
		DaysUntilEnd:       days,
		ProjectedCost:      projected,
		ProjectedRemaining: totalBudget - projected,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
