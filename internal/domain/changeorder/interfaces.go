package changeorder

import (
	"context"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/project"
)

// Repository provides persistence for change orders.
type Repository interface {
	Create(ctx context.Context, order *ChangeOrder) error
	Get(ctx context.Context, id string) (*ChangeOrder, error)
	List(ctx context.Context, projectID string) ([]ChangeOrder, error)
	// UpdateStatus persists a decision only if the stored status still equals
	// expected, returning repository.ErrConflict otherwise.
	UpdateStatus(ctx context.Context, order *ChangeOrder, expected Status) error
}

// ProjectAccess loads a project on behalf of a user.
type ProjectAccess interface {
	Access(ctx context.Context, userID, projectID string) (*project.Project, error)
}

// ActivityRepository logs change order activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.AuditLogEntry) error
}
