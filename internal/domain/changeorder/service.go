package changeorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/repository"
)

// Service handles change order business logic.
type Service struct {
	orders     Repository
	projects   ProjectAccess
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new change order service.
func NewService(orders Repository, projects ProjectAccess, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		orders:     orders,
		projects:   projects,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest describes a change order submission.
type CreateRequest struct {
	ProjectID   string
	Type        Type
	Amount      float64
	Description string
}

// Create submits a pending change order.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*ChangeOrder, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}
	proj, err := s.projects.Access(ctx, userID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if proj.Status == project.StatusArchived {
		return nil, project.ErrArchived
	}

	now := s.now()
	order := &ChangeOrder{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("creating change order: %w", err)
	}

	s.audit(ctx, order.ProjectID, userID, activity.ActionChangeOrderAdded, map[string]any{
		"changeOrderId": order.ID,
		"type":          string(order.Type),
		"amount":        order.Amount,
		"description":   order.Description,
	})

	return order, nil
}

// Approve moves a pending change order to approved, stamping the approver.
func (s *Service) Approve(ctx context.Context, userID, id string) (*ChangeOrder, error) {
	current, err := s.loadWritable(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.Approve(userID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, &updated); err != nil {
		return nil, err
	}

	s.audit(ctx, updated.ProjectID, userID, activity.ActionChangeOrderApproved, map[string]any{
		"changeOrderId": updated.ID,
	})
	return &updated, nil
}

// Reject moves a pending change order to rejected.
func (s *Service) Reject(ctx context.Context, userID, id string) (*ChangeOrder, error) {
	current, err := s.loadWritable(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.Reject(s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, &updated); err != nil {
		return nil, err
	}

	s.audit(ctx, updated.ProjectID, userID, activity.ActionChangeOrderRejected, map[string]any{
		"changeOrderId": updated.ID,
	})
	return &updated, nil
}

// Get returns a change order the user can see.
func (s *Service) Get(ctx context.Context, userID, id string) (*ChangeOrder, error) {
	order, _, err := s.loadForUser(ctx, userID, id)
	return order, err
}

// List returns every change order in a project, newest first.
func (s *Service) List(ctx context.Context, userID, projectID string) ([]ChangeOrder, error) {
	if _, err := s.projects.Access(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, projectID)
}

// persist writes a decision guarded by the pending status, so a concurrent
// decision surfaces as an invalid transition instead of overwriting.
func (s *Service) persist(ctx context.Context, order *ChangeOrder) error {
	if err := s.orders.UpdateStatus(ctx, order, StatusPending); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChangeOrderNotFound
		}
		return fmt.Errorf("updating change order: %w", err)
	}
	return nil
}

func (s *Service) loadForUser(ctx context.Context, userID, id string) (*ChangeOrder, *project.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil, ErrInvalidInput
	}
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrChangeOrderNotFound
		}
		return nil, nil, fmt.Errorf("loading change order: %w", err)
	}
	proj, err := s.projects.Access(ctx, userID, order.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return order, proj, nil
}

// loadWritable is loadForUser for decisions: archived projects are read-only.
func (s *Service) loadWritable(ctx context.Context, userID, id string) (*ChangeOrder, error) {
	order, proj, err := s.loadForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if proj.Status == project.StatusArchived {
		return nil, project.ErrArchived
	}
	return order, nil
}

func (s *Service) audit(ctx context.Context, projectID, userID string, action activity.Action, metadata map[string]any) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.AuditLogEntry{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to write audit entry", "project_id", projectID, "action", action, "error", err)
	}
}
