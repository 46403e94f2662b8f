package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/repository"
)

const (
	// DefaultListLimit is the number of snapshots returned by ListSnapshots.
	DefaultListLimit = 10

	maxVersionAttempts = 3
)

// Service computes summaries and records forecast snapshots.
type Service struct {
	projects   ProjectAccess
	costs      CostLister
	orders     ChangeOrderLister
	snapshots  Repository
	activities ActivityRepository
	narrator   Narrator
	listLimit  int
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithNarrator attaches an optional narrative collaborator.
func WithNarrator(n Narrator) Option {
	return func(s *Service) { s.narrator = n }
}

// WithListLimit overrides DefaultListLimit.
func WithListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new forecast service.
func NewService(
	projects ProjectAccess,
	costs CostLister,
	orders ChangeOrderLister,
	snapshots Repository,
	activities ActivityRepository,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		projects:   projects,
		costs:      costs,
		orders:     orders,
		snapshots:  snapshots,
		activities: activities,
		listLimit:  DefaultListLimit,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveRequest describes a snapshot to record.
type SaveRequest struct {
	ProjectID         string
	ManualOverride    *float64
	AISummary         *string
	GenerateNarrative bool
}

type ledgers struct {
	project   *project.Project
	costs     []cost.Cost
	orders    []changeorder.ChangeOrder
	snapshots []Snapshot
}

// fetch loads the project, then its ledgers concurrently. A failed project
// lookup aborts before any ledger is read.
func (s *Service) fetch(ctx context.Context, userID, projectID string, snapshotLimit int) (*ledgers, error) {
	proj, err := s.projects.Access(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	out := &ledgers{project: proj}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		costs, err := s.costs.List(gctx, projectID)
		if err != nil {
			return fmt.Errorf("listing costs: %w", err)
		}
		out.costs = costs
		return nil
	})
	g.Go(func() error {
		orders, err := s.orders.List(gctx, projectID)
		if err != nil {
			return fmt.Errorf("listing change orders: %w", err)
		}
		out.orders = orders
		return nil
	})
	g.Go(func() error {
		snapshots, err := s.snapshots.List(gctx, projectID, snapshotLimit)
		if err != nil {
			return fmt.Errorf("listing snapshots: %w", err)
		}
		out.snapshots = snapshots
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSummary returns freshly computed figures for a project.
func (s *Service) GetSummary(ctx context.Context, userID, projectID string) (*Summary, error) {
	l, err := s.fetch(ctx, userID, projectID, 1)
	if err != nil {
		return nil, err
	}
	summary := Summarize(l.project, l.costs, l.orders, l.snapshots, s.now().UTC())
	return &summary, nil
}

// SaveSnapshot records the current figures as the next snapshot version.
func (s *Service) SaveSnapshot(ctx context.Context, userID string, req SaveRequest) (*Snapshot, error) {
	if req.ManualOverride != nil && (math.IsNaN(*req.ManualOverride) || math.IsInf(*req.ManualOverride, 0)) {
		return nil, ErrInvalidInput
	}

	l, err := s.fetch(ctx, userID, req.ProjectID, 0)
	if err != nil {
		return nil, err
	}
	if l.project.Status == project.StatusArchived {
		return nil, project.ErrArchived
	}

	now := s.now().UTC()
	summary := Summarize(l.project, l.costs, l.orders, l.snapshots, now)

	snap := &Snapshot{
		ProjectID:       req.ProjectID,
		CostToDate:      summary.Figures.CostToDate,
		BurnRate:        summary.BurnRate,
		RemainingBudget: summary.Figures.RemainingBudget,
		ProjectedTotal:  summary.ProjectedTotal,
		ManualOverride:  req.ManualOverride,
		Insight:         summary.Insight.Text,
		AISummary:       req.AISummary,
		CreatedAt:       now,
		CreatedBy:       userID,
	}

	if snap.AISummary == nil && req.GenerateNarrative {
		text, err := s.narrate(ctx, snap)
		if err != nil {
			return nil, err
		}
		snap.AISummary = &text
	}

	existing := l.snapshots
	for attempt := 1; ; attempt++ {
		snap.ID = uuid.NewString()
		snap.Version = NextVersion(existing)
		err = s.snapshots.Create(ctx, snap)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("creating snapshot: %w", err)
		}
		if attempt == maxVersionAttempts {
			return nil, ErrVersionConflict
		}
		s.log().Debug("snapshot version taken, retrying", "project_id", req.ProjectID, "version", snap.Version)
		if existing, err = s.snapshots.List(ctx, req.ProjectID, 0); err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
	}

	s.audit(ctx, snap, userID)
	return snap, nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (s *Service) ListSnapshots(ctx context.Context, userID, projectID string) ([]Snapshot, error) {
	if _, err := s.projects.Access(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.snapshots.List(ctx, projectID, s.listLimit)
}

func (s *Service) narrate(ctx context.Context, snap *Snapshot) (string, error) {
	if s.narrator == nil || !s.narrator.Enabled() {
		return "", ErrNarratorDisabled
	}
	text, err := s.narrator.ForecastSuggestion(ctx, snap.ProjectID, snap.CostToDate, snap.RemainingBudget, snap.BurnRate)
	if err != nil {
		return "", fmt.Errorf("generating narrative: %w", err)
	}
	return text, nil
}

func (s *Service) audit(ctx context.Context, snap *Snapshot, userID string) {
	if s.activities == nil {
		return
	}
	metadata := map[string]any{
		"snapshotId":      snap.ID,
		"version":         snap.Version,
		"costToDate":      snap.CostToDate,
		"remainingBudget": snap.RemainingBudget,
	}
	if snap.ManualOverride != nil {
		metadata["manualOverride"] = *snap.ManualOverride
	}
	err := s.activities.Log(ctx, &activity.AuditLogEntry{
		ProjectID: snap.ProjectID,
		UserID:    userID,
		Action:    activity.ActionForecastUpdated,
		Metadata:  metadata,
	})
	if err != nil {
		s.log().Warn("failed to write audit entry", "project_id", snap.ProjectID, "error", err)
	}
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
