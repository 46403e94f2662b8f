package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/budget"
	"github.com/rpggio/budgetline/internal/repository"
)

// DefaultCurrency is used when a project is created without one.
const DefaultCurrency = "USD"

// Service handles project operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new project service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name            string
	Description     string
	BaselineBudget  float64
	OverheadPercent float64
	Currency        string
	StartDate       string
	EndDate         *string
}

// UpdateRequest defines a partial project update. Nil fields are left as-is.
type UpdateRequest struct {
	ID              string
	Name            *string
	Description     *string
	BaselineBudget  *float64
	OverheadPercent *float64
	Currency        *string
	StartDate       *string
	EndDate         *string
	ClearEndDate    bool
}

// Create creates a new active project owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrForbidden
	}
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	start, _ := ParseDate(req.StartDate)
	var end *time.Time
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		parsed, _ := ParseDate(*req.EndDate)
		end = &parsed
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	now := s.now()
	proj := &Project{
		ID:              uuid.NewString(),
		OwnerID:         userID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Status:          StatusActive,
		BaselineBudget:  req.BaselineBudget,
		OverheadPercent: req.OverheadPercent,
		OverheadAmount:  budget.OverheadAmount(req.BaselineBudget, req.OverheadPercent),
		Currency:        currency,
		StartDate:       start,
		EndDate:         end,
		CreatedAt:       now,
		UpdatedAt:       now,
		CollaboratorIDs: []string{},
		PendingInvites:  []string{},
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.audit(ctx, proj.ID, userID, activity.ActionProjectCreated, map[string]any{
		"name":           proj.Name,
		"baselineBudget": proj.BaselineBudget,
	})

	return proj, nil
}

// Access loads a project and checks that userID is the owner or a collaborator.
func (s *Service) Access(ctx context.Context, userID, projectID string) (*Project, error) {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !proj.IsMember(userID) {
		return nil, ErrForbidden
	}
	return proj, nil
}

// Authorize checks membership without returning the project.
func (s *Service) Authorize(ctx context.Context, userID, projectID string) error {
	_, err := s.Access(ctx, userID, projectID)
	return err
}

// Get fetches a project visible to userID. Pending invitees may read the
// project record itself so they can decide whether to accept.
func (s *Service) Get(ctx context.Context, userID, projectID string, email string) (*Project, error) {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if proj.IsMember(userID) || proj.HasPendingInvite(email) {
		return proj, nil
	}
	return nil, ErrForbidden
}

// ListOwned returns the projects owned by userID, most recently updated first.
func (s *Service) ListOwned(ctx context.Context, userID string) ([]Project, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// ListShared returns projects where userID is a collaborator.
func (s *Service) ListShared(ctx context.Context, userID string) ([]Project, error) {
	return s.repo.ListByCollaborator(ctx, userID)
}

// ListInvites returns projects with a pending invitation for email.
func (s *Service) ListInvites(ctx context.Context, email string) ([]Project, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByInvite(ctx, normalized)
}

// Update applies a partial update and recomputes the overhead amount.
// A locked baseline is advisory: baseline edits go through and are logged.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*Project, error) {
	current, err := s.Access(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusArchived {
		return nil, ErrArchived
	}

	updated := *current
	changed := map[string]any{}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		updated.Name = strings.TrimSpace(*req.Name)
		changed["name"] = updated.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
		changed["description"] = updated.Description
	}
	if req.BaselineBudget != nil {
		updated.BaselineBudget = *req.BaselineBudget
		changed["baselineBudget"] = updated.BaselineBudget
	}
	if req.OverheadPercent != nil {
		updated.OverheadPercent = *req.OverheadPercent
		changed["overheadPercent"] = updated.OverheadPercent
	}
	if req.Currency != nil {
		updated.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
		if updated.Currency == "" {
			return nil, ErrInvalidInput
		}
		changed["currency"] = updated.Currency
	}
	if req.StartDate != nil {
		start, err := ParseDate(*req.StartDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		updated.StartDate = start
		changed["startDate"] = *req.StartDate
	}
	if req.ClearEndDate {
		updated.EndDate = nil
		changed["endDate"] = nil
	} else if req.EndDate != nil {
		end, err := ParseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		updated.EndDate = &end
		changed["endDate"] = *req.EndDate
	}

	if err := validateBaseline(updated.BaselineBudget, updated.OverheadPercent); err != nil {
		return nil, err
	}
	if updated.EndDate != nil && updated.EndDate.Before(updated.StartDate) {
		return nil, ErrInvalidInput
	}

	touchesBaseline := req.BaselineBudget != nil || req.OverheadPercent != nil
	if touchesBaseline && current.BaselineLocked() && s.logger != nil {
		s.logger.Warn("baseline edited after lock", "project_id", current.ID, "user_id", userID)
	}

	updated.OverheadAmount = budget.OverheadAmount(updated.BaselineBudget, updated.OverheadPercent)
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, s.mapRepoErr("updating project", err)
	}

	s.audit(ctx, updated.ID, userID, activity.ActionProjectUpdated, changed)
	return &updated, nil
}

// LockBaseline stamps baselineLockedAt. Locking twice keeps the first stamp.
func (s *Service) LockBaseline(ctx context.Context, userID, projectID string) (*Project, error) {
	proj, err := s.Access(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if proj.BaselineLocked() {
		return proj, nil
	}

	now := s.now()
	if err := s.repo.LockBaseline(ctx, proj.ID, now); err != nil {
		return nil, s.mapRepoErr("locking baseline", err)
	}
	proj.BaselineLockedAt = &now
	proj.UpdatedAt = now

	s.audit(ctx, proj.ID, userID, activity.ActionProjectUpdated, map[string]any{"baselineLocked": true})
	return proj, nil
}

// Archive moves a project to the archived status.
func (s *Service) Archive(ctx context.Context, userID, projectID string) (*Project, error) {
	proj, err := s.Access(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if proj.Status == StatusArchived {
		return proj, nil
	}

	now := s.now()
	if err := s.repo.SetStatus(ctx, proj.ID, StatusArchived, now); err != nil {
		return nil, s.mapRepoErr("archiving project", err)
	}
	proj.Status = StatusArchived
	proj.UpdatedAt = now

	s.audit(ctx, proj.ID, userID, activity.ActionProjectArchived, nil)
	return proj, nil
}

// Delete removes a project and every dependent record. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	if !proj.IsOwner(userID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, projectID); err != nil {
		return s.mapRepoErr("deleting project", err)
	}
	if s.logger != nil {
		s.logger.Info("project deleted", "project_id", projectID, "user_id", userID)
	}
	return nil
}

// Invite adds a pending invitation for email.
func (s *Service) Invite(ctx context.Context, userID, projectID, email string) (*Project, error) {
	normalized := NormalizeEmail(email)
	if !validEmail(normalized) {
		return nil, ErrInvalidInput
	}

	proj, err := s.Access(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if proj.HasPendingInvite(normalized) {
		return proj, nil
	}

	if err := s.repo.AddInvite(ctx, projectID, normalized); err != nil {
		return nil, s.mapRepoErr("adding invite", err)
	}
	proj.PendingInvites = append(proj.PendingInvites, normalized)
	s.touch(ctx, proj)
	return proj, nil
}

// RemoveInvite withdraws a pending invitation. Missing invitations are a no-op.
func (s *Service) RemoveInvite(ctx context.Context, userID, projectID, email string) (*Project, error) {
	proj, err := s.Access(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return s.dropInvite(ctx, proj, email)
}

// AcceptInvite turns a pending invitation for email into collaborator access for userID.
func (s *Service) AcceptInvite(ctx context.Context, userID, projectID, email string) (*Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrForbidden
	}
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !proj.HasPendingInvite(email) {
		return nil, ErrInviteNotFound
	}

	if !proj.IsMember(userID) {
		if err := s.repo.AddCollaborator(ctx, projectID, userID); err != nil {
			return nil, s.mapRepoErr("adding collaborator", err)
		}
		proj.CollaboratorIDs = append(proj.CollaboratorIDs, userID)
	}
	return s.dropInvite(ctx, proj, email)
}

// DeclineInvite removes the pending invitation for email.
func (s *Service) DeclineInvite(ctx context.Context, projectID, email string) error {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	if !proj.HasPendingInvite(email) {
		return ErrInviteNotFound
	}
	_, err = s.dropInvite(ctx, proj, email)
	return err
}

// RemoveCollaborator revokes a collaborator's access.
func (s *Service) RemoveCollaborator(ctx context.Context, userID, projectID, collaboratorID string) (*Project, error) {
	proj, err := s.Access(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveCollaborator(ctx, projectID, collaboratorID); err != nil {
		return nil, s.mapRepoErr("removing collaborator", err)
	}

	remaining := proj.CollaboratorIDs[:0]
	for _, id := range proj.CollaboratorIDs {
		if id != collaboratorID {
			remaining = append(remaining, id)
		}
	}
	proj.CollaboratorIDs = remaining
	s.touch(ctx, proj)
	return proj, nil
}

func (s *Service) dropInvite(ctx context.Context, proj *Project, email string) (*Project, error) {
	normalized := NormalizeEmail(email)
	kept := make([]string, 0, len(proj.PendingInvites))
	removed := false
	for _, invite := range proj.PendingInvites {
		if NormalizeEmail(invite) == normalized {
			if err := s.repo.RemoveInvite(ctx, proj.ID, invite); err != nil {
				return nil, s.mapRepoErr("removing invite", err)
			}
			removed = true
			continue
		}
		kept = append(kept, invite)
	}
	proj.PendingInvites = kept
	if removed {
		s.touch(ctx, proj)
	}
	return proj, nil
}

// touch bumps updatedAt so membership changes reorder project lists.
func (s *Service) touch(ctx context.Context, proj *Project) {
	proj.UpdatedAt = s.now()
	if err := s.repo.Touch(ctx, proj.ID, proj.UpdatedAt); err != nil && s.logger != nil {
		s.logger.Warn("failed to bump project timestamp", "project_id", proj.ID, "error", err)
	}
}

func (s *Service) load(ctx context.Context, projectID string) (*Project, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrInvalidInput
	}
	proj, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

func (s *Service) mapRepoErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProjectNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
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
