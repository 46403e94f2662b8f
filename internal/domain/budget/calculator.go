// Package budget combines baseline, overhead, approved change orders and
// cost-to-date into the derived budget figures.
//
// All arithmetic stays in float64 without rounding; RoundMinor is for
// presentation only so repeated recomputation never compounds rounding error.
package budget

import (
	"math"
	"strings"
)

// Figures are the derived budget totals for a project.
type Figures struct {
	BaselineBudget           float64 `json:"baseline_budget"`
	OverheadAmount           float64 `json:"overhead_amount"`
	ApprovedChangeOrderTotal float64 `json:"approved_change_order_total"`
	TotalBudget              float64 `json:"total_budget"`
	CostToDate               float64 `json:"cost_to_date"`
	RemainingBudget          float64 `json:"remaining_budget"`
}

// OverBudget reports whether spending has passed the total budget.
func (f Figures) OverBudget() bool {
	return f.RemainingBudget < 0
}

// OverheadAmount returns baseline * overheadPercent / 100.
func OverheadAmount(baselineBudget, overheadPercent float64) float64 {
	return baselineBudget * overheadPercent / 100
}

// Compute derives overhead, total budget and remaining budget.
// Total and remaining may be negative; that is a valid state, not an error.
func Compute(baselineBudget, overheadPercent, approvedChangeOrderTotal, costToDate float64) Figures {
	overhead := OverheadAmount(baselineBudget, overheadPercent)
	total := baselineBudget + overhead + approvedChangeOrderTotal
	return Figures{
		BaselineBudget:           baselineBudget,
		OverheadAmount:           overhead,
		ApprovedChangeOrderTotal: approvedChangeOrderTotal,
		TotalBudget:              total,
		CostToDate:               costToDate,
		RemainingBudget:          total - costToDate,
	}
}

// zeroDecimal lists ISO 4217 currencies without a minor unit.
var zeroDecimal = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "ISK": true,
	"JPY": true, "KMF": true, "KRW": true, "PYG": true, "RWF": true,
	"UGX": true, "VND": true, "VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// threeDecimal lists ISO 4217 currencies with three minor digits.
var threeDecimal = map[string]bool{
	"BHD": true, "IQD": true, "JOD": true, "KWD": true, "LYD": true, "OMR": true, "TND": true,
}

// MinorUnits returns the number of decimal digits for currency.
func MinorUnits(currency string) int {
	code := strings.ToUpper(strings.TrimSpace(currency))
	switch {
	case zeroDecimal[code]:
		return 0
	case threeDecimal[code]:
		return 3
	default:
		return 2
	}
}

// RoundMinor rounds amount half away from zero to the currency's minor unit.
func RoundMinor(amount float64, currency string) float64 {
	scale := math.Pow10(MinorUnits(currency))
	return math.Round(amount*scale) / scale
}
