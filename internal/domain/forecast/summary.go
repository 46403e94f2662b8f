package forecast

import (
	"time"

	"github.com/rpggio/budgetline/internal/domain/budget"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/project"
)

// Summary is the derived view of a project's budget at a point in time.
type Summary struct {
	ProjectID      string         `json:"project_id"`
	Currency       string         `json:"currency"`
	Figures        budget.Figures `json:"figures"`
	CostCount      int            `json:"cost_count"`
	BurnRate       float64        `json:"burn_rate"`
	ProjectedTotal float64        `json:"projected_total"`
	PercentSpent   float64        `json:"percent_spent"`
	Completion     Completion     `json:"completion"`
	Insight        Insight        `json:"insight"`
	LatestSnapshot *Snapshot      `json:"latest_snapshot,omitempty"`
	ComputedAt     time.Time      `json:"computed_at"`
}

// Summarize recomputes every derived figure from already-fetched ledgers.
// Inputs are not modified and their order does not matter.
func Summarize(p *project.Project, costs []cost.Cost, orders []changeorder.ChangeOrder, snapshots []Snapshot, today time.Time) Summary {
	costToDate := cost.ToDate(costs)
	figures := budget.Compute(p.BaselineBudget, p.OverheadPercent, changeorder.ApprovedTotal(orders), costToDate)
	burn := BurnRate(costs, costToDate)

	return Summary{
		ProjectID:      p.ID,
		Currency:       p.Currency,
		Figures:        figures,
		CostCount:      len(costs),
		BurnRate:       burn,
		ProjectedTotal: ProjectedTotal(costToDate, figures.RemainingBudget),
		PercentSpent:   PercentSpent(costToDate, figures.TotalBudget),
		Completion:     ProjectCompletion(p.EndDate, today, costToDate, burn, figures.TotalBudget),
		Insight:        ComputeInsight(costToDate, figures.TotalBudget, figures.RemainingBudget, burn, len(costs)),
		LatestSnapshot: Latest(snapshots),
		ComputedAt:     today,
	}
}
