package mocks

import (
	"context"
	"time"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *ProjectRepository) LockBaseline(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *ProjectRepository) Touch(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListByCollaborator(ctx context.Context, userID string) ([]project.Project, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListByInvite(ctx context.Context, email string) ([]project.Project, error) {
	args := m.Called(ctx, email)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) AddCollaborator(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *ProjectRepository) RemoveCollaborator(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *ProjectRepository) AddInvite(ctx context.Context, projectID, email string) error {
	args := m.Called(ctx, projectID, email)
	return args.Error(0)
}

func (m *ProjectRepository) RemoveInvite(ctx context.Context, projectID, email string) error {
	args := m.Called(ctx, projectID, email)
	return args.Error(0)
}

// ProjectAccess is a mock for the ProjectAccess interfaces of the ledger services.
type ProjectAccess struct {
	mock.Mock
}

func (m *ProjectAccess) Access(ctx context.Context, userID, projectID string) (*project.Project, error) {
	args := m.Called(ctx, userID, projectID)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

// CostRepository is a mock for cost.Repository.
type CostRepository struct {
	mock.Mock
}

func (m *CostRepository) Create(ctx context.Context, c *cost.Cost) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CostRepository) Get(ctx context.Context, id string) (*cost.Cost, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*cost.Cost); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CostRepository) Update(ctx context.Context, c *cost.Cost) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CostRepository) List(ctx context.Context, projectID string) ([]cost.Cost, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]cost.Cost); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CostSearchRepository is a mock for cost.SearchRepository.
type CostSearchRepository struct {
	mock.Mock
}

func (m *CostSearchRepository) Search(ctx context.Context, projectID, query string, limit int) ([]cost.SearchResult, error) {
	args := m.Called(ctx, projectID, query, limit)
	if list, ok := args.Get(0).([]cost.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ChangeOrderRepository is a mock for changeorder.Repository.
type ChangeOrderRepository struct {
	mock.Mock
}

func (m *ChangeOrderRepository) Create(ctx context.Context, order *changeorder.ChangeOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *ChangeOrderRepository) Get(ctx context.Context, id string) (*changeorder.ChangeOrder, error) {
	args := m.Called(ctx, id)
	if order, ok := args.Get(0).(*changeorder.ChangeOrder); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChangeOrderRepository) List(ctx context.Context, projectID string) ([]changeorder.ChangeOrder, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]changeorder.ChangeOrder); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChangeOrderRepository) UpdateStatus(ctx context.Context, order *changeorder.ChangeOrder, expected changeorder.Status) error {
	args := m.Called(ctx, order, expected)
	return args.Error(0)
}

// ForecastRepository is a mock for forecast.Repository.
type ForecastRepository struct {
	mock.Mock
}

func (m *ForecastRepository) Create(ctx context.Context, snapshot *forecast.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *ForecastRepository) List(ctx context.Context, projectID string, limit int) ([]forecast.Snapshot, error) {
	args := m.Called(ctx, projectID, limit)
	if list, ok := args.Get(0).([]forecast.Snapshot); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.AuditLogEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.AuditLogEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
