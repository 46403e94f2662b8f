package cost

import (
	"context"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/project"
)

// Repository provides persistence for costs.
type Repository interface {
	Create(ctx context.Context, c *Cost) error
	Get(ctx context.Context, id string) (*Cost, error)
	Update(ctx context.Context, c *Cost) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, projectID string) ([]Cost, error)
}

// SearchRepository performs full-text search over costs.
type SearchRepository interface {
	Search(ctx context.Context, projectID, query string, limit int) ([]SearchResult, error)
}

// ProjectAccess loads a project on behalf of a user.
type ProjectAccess interface {
	Access(ctx context.Context, userID, projectID string) (*project.Project, error)
}

// ActivityRepository logs cost activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.AuditLogEntry) error
}
