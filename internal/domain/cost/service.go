package cost

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

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 20

// Service handles cost ledger mutations and queries.
type Service struct {
	costs      Repository
	search     SearchRepository
	projects   ProjectAccess
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new cost service.
func NewService(
	costs Repository,
	search SearchRepository,
	projects ProjectAccess,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		costs:      costs,
		search:     search,
		projects:   projects,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// AddRequest describes a new cost entry.
type AddRequest struct {
	ProjectID     string
	Amount        float64
	Category      string
	Vendor        string
	Description   string
	Date          string
	DeductionType DeductionType
}

// EditRequest describes a partial cost edit. Nil fields are left as-is.
type EditRequest struct {
	ID            string
	Amount        *float64
	Category      *string
	Vendor        *string
	Description   *string
	Date          *string
	DeductionType *DeductionType
}

// Add records a cost against a project.
func (s *Service) Add(ctx context.Context, userID string, req AddRequest) (*Cost, error) {
	if err := ValidateAddInput(req); err != nil {
		return nil, err
	}
	if err := s.writable(ctx, userID, req.ProjectID); err != nil {
		return nil, err
	}

	date, _ := ParseDate(req.Date)
	deduction := req.DeductionType
	if deduction == "" {
		deduction = DeductionManual
	}

	now := s.now()
	c := &Cost{
		ID:            uuid.NewString(),
		ProjectID:     req.ProjectID,
		Amount:        req.Amount,
		Category:      strings.TrimSpace(req.Category),
		Vendor:        strings.TrimSpace(req.Vendor),
		Description:   strings.TrimSpace(req.Description),
		Date:          date,
		DeductionType: deduction,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     userID,
	}

	if err := s.costs.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating cost: %w", err)
	}

	s.audit(ctx, c.ProjectID, userID, activity.ActionCostAdded, map[string]any{
		"costId": c.ID,
		"amount": c.Amount,
	})
	return c, nil
}

// Edit applies a partial update to a cost.
func (s *Service) Edit(ctx context.Context, userID string, req EditRequest) (*Cost, error) {
	if err := ValidateEditInput(req); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.writable(ctx, userID, current.ProjectID); err != nil {
		return nil, err
	}

	updated := *current
	changed := map[string]any{"costId": current.ID}
	if req.Amount != nil {
		updated.Amount = *req.Amount
		changed["amount"] = updated.Amount
	}
	if req.Category != nil {
		updated.Category = strings.TrimSpace(*req.Category)
		changed["category"] = updated.Category
	}
	if req.Vendor != nil {
		updated.Vendor = strings.TrimSpace(*req.Vendor)
		changed["vendor"] = updated.Vendor
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
		changed["description"] = updated.Description
	}
	if req.Date != nil {
		updated.Date, _ = ParseDate(*req.Date)
		changed["date"] = updated.Date.Format(DateLayout)
	}
	if req.DeductionType != nil && *req.DeductionType != "" {
		updated.DeductionType = *req.DeductionType
		changed["deductionType"] = string(updated.DeductionType)
	}
	updated.UpdatedAt = s.now()

	if err := s.costs.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCostNotFound
		}
		return nil, fmt.Errorf("updating cost: %w", err)
	}

	s.audit(ctx, updated.ProjectID, userID, activity.ActionCostEdited, changed)
	return &updated, nil
}

// Delete hard-deletes a cost.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.writable(ctx, userID, current.ProjectID); err != nil {
		return err
	}

	if err := s.costs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCostNotFound
		}
		return fmt.Errorf("deleting cost: %w", err)
	}

	s.audit(ctx, current.ProjectID, userID, activity.ActionCostDeleted, map[string]any{
		"costId": id,
		"amount": current.Amount,
	})
	return nil
}

// List returns the project's costs, newest economic date first.
func (s *Service) List(ctx context.Context, userID, projectID string) ([]Cost, error) {
	if _, err := s.projects.Access(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.costs.List(ctx, projectID)
}

// Search runs full-text search over the project's costs.
func (s *Service) Search(ctx context.Context, userID, projectID, query string, limit int) ([]SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search repository not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.projects.Access(ctx, userID, projectID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.search.Search(ctx, projectID, query, limit)
}

func (s *Service) writable(ctx context.Context, userID, projectID string) error {
	proj, err := s.projects.Access(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if proj.Status == project.StatusArchived {
		return project.ErrArchived
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*Cost, error) {
	c, err := s.costs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCostNotFound
		}
		return nil, fmt.Errorf("loading cost: %w", err)
	}
	return c, nil
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

// Get returns a single cost visible to the user.
func (s *Service) Get(ctx context.Context, userID, id string) (*Cost, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.Access(ctx, userID, c.ProjectID); err != nil {
		return nil, err
	}
	return c, nil
}
