package forecast

import (
	"context"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/project"
)

// Repository persists snapshots. Snapshots are append-only.
type Repository interface {
	// Create stores a snapshot, returning repository.ErrConflict when the
	// project already has a snapshot with the same version.
	Create(ctx context.Context, snapshot *Snapshot) error
	// List returns snapshots newest first. A limit <= 0 returns all of them.
	List(ctx context.Context, projectID string, limit int) ([]Snapshot, error)
}

// ProjectAccess loads a project on behalf of a user.
type ProjectAccess interface {
	Access(ctx context.Context, userID, projectID string) (*project.Project, error)
}

// CostLister reads a project's cost ledger.
type CostLister interface {
	List(ctx context.Context, projectID string) ([]cost.Cost, error)
}

// ChangeOrderLister reads a project's change order ledger.
type ChangeOrderLister interface {
	List(ctx context.Context, projectID string) ([]changeorder.ChangeOrder, error)
}

// ActivityRepository logs forecast activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.AuditLogEntry) error
}

// Narrator produces an optional free-text interpretation of the figures.
type Narrator interface {
	Enabled() bool
	ForecastSuggestion(ctx context.Context, projectID string, costToDate, remainingBudget, burnRate float64) (string, error)
}
