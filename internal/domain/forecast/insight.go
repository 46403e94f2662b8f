package forecast

import (
	"fmt"
	"math"
)

// ApproachingLimitPercent is the percent-spent threshold for the
// "approaching budget limit" flag.
const ApproachingLimitPercent = 90

// Category is the insight classification, in priority order.
type Category string

const (
	CategoryNoData     Category = "no_data"
	CategoryOverBudget Category = "over_budget"
	CategorySpendOnly  Category = "spend_only"
	CategoryRunway     Category = "runway"
)

// Insight is the deterministic narrative over the budget figures.
type Insight struct {
	Category         Category `json:"category"`
	Text             string   `json:"text"`
	PercentSpent     float64  `json:"percent_spent"`
	ApproachingLimit bool     `json:"approaching_limit"`
	DaysOfRunway     *int     `json:"days_of_runway,omitempty"`
	OverBy           float64  `json:"over_by,omitempty"`
}

// PercentSpent is costToDate as a percentage of totalBudget, or 0 when the
// budget is zero or negative.
func PercentSpent(costToDate, totalBudget float64) float64 {
	if totalBudget <= 0 {
		return 0
	}
	return costToDate / totalBudget * 100
}

// ComputeInsight classifies the figures. The first matching rule wins:
// no costs, over budget, no burn rate, then runway.
func ComputeInsight(costToDate, totalBudget, remainingBudget, burnRate float64, costCount int) Insight {
	if costCount == 0 {
		return Insight{
			Category: CategoryNoData,
			Text:     "No costs recorded yet. Add costs to track spending and burn rate.",
		}
	}

	pct := PercentSpent(costToDate, totalBudget)

	if remainingBudget < 0 {
		over := -remainingBudget
		return Insight{
			Category:     CategoryOverBudget,
			Text:         fmt.Sprintf("Over budget by %s. Review costs and consider adjustments.", formatFixed(over, 2)),
			PercentSpent: pct,
			OverBy:       over,
		}
	}

	approaching := pct >= ApproachingLimitPercent

	if burnRate <= 0 {
		text := fmt.Sprintf("%s%% of budget spent. Add at least two cost entries with different dates to estimate burn rate.", formatFixed(pct, 0))
		if approaching {
			text = fmt.Sprintf("Approaching budget limit. %s%% of budget spent. Add more cost entries to estimate burn rate.", formatFixed(pct, 0))
		}
		return Insight{
			Category:         CategorySpendOnly,
			Text:             text,
			PercentSpent:     pct,
			ApproachingLimit: approaching,
		}
	}

	runway := int(math.Floor(remainingBudget / burnRate))
	var text string
	if approaching {
		text = fmt.Sprintf("Approaching budget limit. %s%% spent. At current burn rate of %s/day, remaining budget will last approximately %d days.", formatFixed(pct, 0), formatFixed(burnRate, 2), runway)
	} else {
		text = fmt.Sprintf("On track. %s%% of budget spent. At current burn rate of %s/day, remaining budget will last approximately %d days.", formatFixed(pct, 0), formatFixed(burnRate, 2), runway)
	}
	return Insight{
		Category:         CategoryRunway,
		Text:             text,
		PercentSpent:     pct,
		ApproachingLimit: approaching,
		DaysOfRunway:     &runway,
	}
}

// formatFixed renders x with the given number of decimals, rounding halves
// away from zero. Plain %.Nf rounds exact halves to even.
func formatFixed(x float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	return fmt.Sprintf("%.*f", decimals, math.Round(x*scale)/scale)
}
