package forecast

import (
	"time"
)

// Snapshot is an immutable, versioned record of derived budget figures.
type Snapshot struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	Version         int       `json:"version"`
	CostToDate      float64   `json:"cost_to_date"`
	BurnRate        float64   `json:"burn_rate"`
	RemainingBudget float64   `json:"remaining_budget"`
	ProjectedTotal  float64   `json:"projected_total"`
	ManualOverride  *float64  `json:"manual_override,omitempty"`
	Insight         string    `json:"insight"`
	AISummary       *string   `json:"ai_summary,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by"`
}

// CompletionStatus classifies a completion projection.
type CompletionStatus string

const (
	CompletionNoEndDate CompletionStatus = "no-end-date"
	CompletionCompleted CompletionStatus = "completed"
	CompletionProjected CompletionStatus = "projected"
)

// Completion is the projected spend at the project's end date. The numeric
// fields are only meaningful when Status is CompletionProjected; a projected
// zero is still encoded.
type Completion struct {
	Status             CompletionStatus `json:"status"`
	DaysUntilEnd       int              `json:"days_until_end"`
	ProjectedCost      float64          `json:"projected_cost"`
	ProjectedRemaining float64          `json:"projected_remaining"`
}
