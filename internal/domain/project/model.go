package project

import (
	"slices"
	"time"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// DateLayout is the calendar-date format used for start and end dates.
const DateLayout = "2006-01-02"

// Project is a budgeted piece of work owned by one user.
type Project struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Status           Status     `json:"status"`
	BaselineBudget   float64    `json:"baseline_budget"`
	OverheadPercent  float64    `json:"overhead_percent"`
	OverheadAmount   float64    `json:"overhead_amount"`
	Currency         string     `json:"currency"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	BaselineLockedAt *time.Time `json:"baseline_locked_at,omitempty"`
	CollaboratorIDs  []string   `json:"collaborator_ids"`
	PendingInvites   []string   `json:"pending_invites"`
}

// IsOwner reports whether userID owns the project.
func (p *Project) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// IsMember reports whether userID is the owner or an accepted collaborator.
func (p *Project) IsMember(userID string) bool {
	if p.IsOwner(userID) {
		return true
	}
	return userID != "" && slices.Contains(p.CollaboratorIDs, userID)
}

// HasPendingInvite reports whether email has an unaccepted invitation.
func (p *Project) HasPendingInvite(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return false
	}
	for _, invite := range p.PendingInvites {
		if NormalizeEmail(invite) == normalized {
			return true
		}
	}
	return false
}

// BaselineLocked reports whether the baseline has been locked.
func (p *Project) BaselineLocked() bool {
	return p.BaselineLockedAt != nil
}
