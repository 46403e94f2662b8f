package activity

import "time"

// Action names a mutation recorded in the audit log.
type Action string

const (
	ActionCostAdded           Action = "cost_added"
	ActionCostEdited          Action = "cost_edited"
	ActionCostDeleted         Action = "cost_deleted"
	ActionChangeOrderAdded    Action = "change_order_added"
	ActionChangeOrderApproved Action = "change_order_approved"
	ActionChangeOrderRejected Action = "change_order_rejected"
	ActionForecastUpdated     Action = "forecast_updated"
	ActionProjectCreated      Action = "project_created"
	ActionProjectUpdated      Action = "project_updated"
	ActionProjectArchived     Action = "project_archived"
)

// Valid reports whether a is one of the known audit actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCostAdded, ActionCostEdited, ActionCostDeleted,
		ActionChangeOrderAdded, ActionChangeOrderApproved, ActionChangeOrderRejected,
		ActionForecastUpdated,
		ActionProjectCreated, ActionProjectUpdated, ActionProjectArchived:
		return true
	}
	return false
}

// AuditLogEntry is a write-once record of a project mutation.
type AuditLogEntry struct {
	ID        int64          `json:"id"`
	ProjectID string         `json:"project_id"`
	Action    Action         `json:"action"`
	UserID    string         `json:"user_id"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
