package mcp

import (
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/project"
)

type ProjectIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type CreateProjectParams struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	BaselineBudget  float64 `json:"baseline_budget" jsonschema:"baseline budget before overhead"`
	OverheadPercent float64 `json:"overhead_percent,omitempty" jsonschema:"overhead as a percentage of the baseline"`
	Currency        string  `json:"currency" jsonschema:"ISO 4217 code such as USD"`
	StartDate       string  `json:"start_date" jsonschema:"YYYY-MM-DD"`
	EndDate         *string `json:"end_date,omitempty" jsonschema:"YYYY-MM-DD"`
}

type UpdateProjectParams struct {
	ProjectID       string   `json:"project_id"`
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	BaselineBudget  *float64 `json:"baseline_budget,omitempty"`
	OverheadPercent *float64 `json:"overhead_percent,omitempty"`
	Currency        *string  `json:"currency,omitempty"`
	StartDate       *string  `json:"start_date,omitempty"`
	EndDate         *string  `json:"end_date,omitempty"`
	ClearEndDate    bool     `json:"clear_end_date,omitempty" jsonschema:"remove the end date"`
}

type InviteParams struct {
	ProjectID string `json:"project_id"`
	Email     string `json:"email"`
}

type RemoveCollaboratorParams struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

type AddCostParams struct {
	ProjectID     string  `json:"project_id"`
	Amount        float64 `json:"amount" jsonschema:"positive amount in project currency"`
	Category      string  `json:"category"`
	Vendor        string  `json:"vendor,omitempty"`
	Description   string  `json:"description,omitempty"`
	Date          string  `json:"date" jsonschema:"economic date, YYYY-MM-DD"`
	DeductionType string  `json:"deduction_type,omitempty" jsonschema:"manual or automatic"`
}

type EditCostParams struct {
	CostID        string   `json:"cost_id"`
	Amount        *float64 `json:"amount,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Vendor        *string  `json:"vendor,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Date          *string  `json:"date,omitempty"`
	DeductionType *string  `json:"deduction_type,omitempty"`
}

type CostIDParams struct {
	CostID string `json:"cost_id"`
}

type SearchCostsParams struct {
	ProjectID string `json:"project_id"`
	Query     string `json:"query" jsonschema:"words matched against vendor, category and description"`
	Limit     int    `json:"limit,omitempty"`
}

type CreateChangeOrderParams struct {
	ProjectID   string  `json:"project_id"`
	Type        string  `json:"type" jsonschema:"positive or negative"`
	Amount      float64 `json:"amount" jsonschema:"positive magnitude; type carries the sign"`
	Description string  `json:"description"`
}

type ChangeOrderIDParams struct {
	ChangeOrderID string `json:"change_order_id"`
}

type SaveSnapshotParams struct {
	ProjectID         string   `json:"project_id"`
	ManualOverride    *float64 `json:"manual_override,omitempty" jsonschema:"user-entered projected total"`
	AISummary         *string  `json:"ai_summary,omitempty"`
	GenerateNarrative bool     `json:"generate_narrative,omitempty" jsonschema:"ask the AI narrator for a short interpretation"`
}

type AuditLogParams struct {
	ProjectID string  `json:"project_id"`
	Action    *string `json:"action,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

type InsightParams struct {
	ProjectID    string `json:"project_id"`
	Kind         string `json:"kind" jsonschema:"health, forecast_risk, monthly_summary or custom"`
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

type ProjectListResponse struct {
	Owned   []project.Project `json:"owned"`
	Shared  []project.Project `json:"shared"`
	Invites []project.Project `json:"invites"`
}

type AuditLogResponse struct {
	Entries []activity.AuditLogEntry `json:"entries"`
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
