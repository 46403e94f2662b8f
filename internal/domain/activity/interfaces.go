package activity

import "context"

// Repository provides persistence operations for audit entries.
type Repository interface {
	Log(ctx context.Context, entry *AuditLogEntry) error
	List(ctx context.Context, opts ListOptions) ([]AuditLogEntry, error)
}

// ProjectAuthorizer checks that a user may read a project.
type ProjectAuthorizer interface {
	Authorize(ctx context.Context, userID, projectID string) error
}
