package project

import (
	"context"
	"time"

	"github.com/rpggio/budgetline/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	SetStatus(ctx context.Context, id string, status Status, at time.Time) error
	LockBaseline(ctx context.Context, id string, at time.Time) error
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	ListByCollaborator(ctx context.Context, userID string) ([]Project, error)
	ListByInvite(ctx context.Context, email string) ([]Project, error)
	AddCollaborator(ctx context.Context, projectID, userID string) error
	RemoveCollaborator(ctx context.Context, projectID, userID string) error
	AddInvite(ctx context.Context, projectID, email string) error
	RemoveInvite(ctx context.Context, projectID, email string) error
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.AuditLogEntry) error
}
