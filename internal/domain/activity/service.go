package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service handles audit log operations.
type Service struct {
	repo     Repository
	projects ProjectAuthorizer
	logger   *slog.Logger
	limit    int
}

// NewService creates a new audit log service. limit <= 0 uses DefaultListLimit.
func NewService(repo Repository, projects ProjectAuthorizer, limit int, logger *slog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &Service{repo: repo, projects: projects, logger: logger, limit: limit}
}

// Log appends an entry with the current timestamp if missing.
func (s *Service) Log(ctx context.Context, entry *AuditLogEntry) error {
	if entry == nil || strings.TrimSpace(entry.ProjectID) == "" || !entry.Action.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// List returns the newest entries for a project the user can access.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]AuditLogEntry, error) {
	if s.projects != nil {
		if err := s.projects.Authorize(ctx, userID, opts.ProjectID); err != nil {
			return nil, err
		}
	}
	if opts.Limit <= 0 || opts.Limit > s.limit {
		opts.Limit = s.limit
	}
	return s.repo.List(ctx, opts)
}
