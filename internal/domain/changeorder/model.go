package changeorder

import "time"

// Type carries the sign of a change order.
type Type string

const (
	TypePositive Type = "positive"
	TypeNegative Type = "negative"
)

// Status is the approval state of a change order.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ChangeOrder is a budget adjustment that only counts once approved.
// Amount is always a non-negative magnitude; Type carries the sign.
type ChangeOrder struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Type        Type       `json:"type"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	ApprovedBy  *string    `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   string     `json:"created_by"`
}
