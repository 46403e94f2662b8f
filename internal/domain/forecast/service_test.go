package forecast_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/repository"
	"github.com/rpggio/budgetline/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	projects   *mocks.ProjectAccess
	costs      *mocks.CostRepository
	orders     *mocks.ChangeOrderRepository
	snapshots  *mocks.ForecastRepository
	activities *mocks.ActivityRepository
}

func newFixture() *fixture {
	return &fixture{
		projects:   &mocks.ProjectAccess{},
		costs:      &mocks.CostRepository{},
		orders:     &mocks.ChangeOrderRepository{},
		snapshots:  &mocks.ForecastRepository{},
		activities: &mocks.ActivityRepository{},
	}
}

func (f *fixture) service(opts ...forecast.Option) *forecast.Service {
	opts = append([]forecast.Option{forecast.WithClock(func() time.Time { return day(20) })}, opts...)
	return forecast.NewService(f.projects, f.costs, f.orders, f.snapshots, f.activities, nil, opts...)
}

func (f *fixture) withLedgers(p *project.Project, costs []cost.Cost, orders []changeorder.ChangeOrder, snapshots []forecast.Snapshot) {
	f.projects.On("Access", mock.Anything, "user1", p.ID).Return(p, nil)
	f.costs.On("List", mock.Anything, p.ID).Return(costs, nil)
	f.orders.On("List", mock.Anything, p.ID).Return(orders, nil)
	f.snapshots.On("List", mock.Anything, p.ID, mock.Anything).Return(snapshots, nil)
}

type fixedNarrator struct {
	text     string
	disabled bool
}

func (n fixedNarrator) Enabled() bool {
	return !n.disabled
}

func (n fixedNarrator) ForecastSuggestion(context.Context, string, float64, float64, float64) (string, error) {
	return n.text, nil
}

func TestForecastService_GetSummary(t *testing.T) {
	p, costs, orders := scenarioA()
	f := newFixture()
	f.withLedgers(p, costs, orders, nil)

	summary, err := f.service().GetSummary(context.Background(), "user1", p.ID)
	require.NoError(t, err)
	require.InDelta(t, 8300, summary.Figures.RemainingBudget, 1e-9)
	require.Equal(t, day(20), summary.ComputedAt)
}

func TestForecastService_GetSummaryForbidden(t *testing.T) {
	f := newFixture()
	f.projects.On("Access", mock.Anything, "stranger", "proj1").Return((*project.Project)(nil), project.ErrForbidden)

	_, err := f.service().GetSummary(context.Background(), "stranger", "proj1")
	require.ErrorIs(t, err, project.ErrForbidden)
	f.costs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestForecastService_GetSummaryLedgerFailure(t *testing.T) {
	p, _, orders := scenarioA()
	f := newFixture()
	f.projects.On("Access", mock.Anything, "user1", p.ID).Return(p, nil)
	f.costs.On("List", mock.Anything, p.ID).Return([]cost.Cost(nil), errors.New("disk gone"))
	f.orders.On("List", mock.Anything, p.ID).Return(orders, nil)
	f.snapshots.On("List", mock.Anything, p.ID, mock.Anything).Return([]forecast.Snapshot(nil), nil)

	_, err := f.service().GetSummary(context.Background(), "user1", p.ID)
	require.ErrorContains(t, err, "listing costs")
}

func TestForecastService_SaveSnapshotVersions(t *testing.T) {
	p, costs, orders := scenarioA()
	f := newFixture()
	f.withLedgers(p, costs, orders, []forecast.Snapshot{{Version: 1}, {Version: 3}})
	f.snapshots.On("Create", mock.Anything, mock.MatchedBy(func(s *forecast.Snapshot) bool {
		return s.Version == 4
	})).Return(nil)
	f.activities.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.AuditLogEntry) bool {
		return e.Action == activity.ActionForecastUpdated && e.Metadata["version"] == 4
	})).Return(nil)

	override := 12000.0
	snap, err := f.service().SaveSnapshot(context.Background(), "user1", forecast.SaveRequest{
		ProjectID:      p.ID,
		ManualOverride: &override,
	})
	require.NoError(t, err)
	require.Equal(t, 4, snap.Version)
	require.InDelta(t, 3000, snap.CostToDate, 1e-9)
	require.InDelta(t, 8300, snap.RemainingBudget, 1e-9)
	require.InDelta(t, 11300, snap.ProjectedTotal, 1e-9)
	require.Equal(t, 12000.0, *snap.ManualOverride)
	require.NotEmpty(t, snap.Insight)
	require.Nil(t, snap.AISummary)
	f.activities.AssertExpectations(t)
}

func TestForecastService_SaveSnapshotRetriesOnConflict(t *testing.T) {
	p, costs, orders := scenarioA()
	f := newFixture()
	f.projects.On("Access", mock.Anything, "user1", p.ID).Return(p, nil)
	f.costs.On("List", mock.Anything, p.ID).Return(costs, nil)
	f.orders.On("List", mock.Anything, p.ID).Return(orders, nil)
	f.snapshots.On("List", mock.Anything, p.ID, 0).Return([]forecast.Snapshot{}, nil).Once()
	f.snapshots.On("List", mock.Anything, p.ID, 0).Return([]forecast.Snapshot{{Version: 1}}, nil).Once()
	f.snapshots.On("Create", mock.Anything, mock.MatchedBy(func(s *forecast.Snapshot) bool {
		return s.Version == 1
	})).Return(repository.ErrConflict).Once()
	f.snapshots.On("Create", mock.Anything, mock.MatchedBy(func(s *forecast.Snapshot) bool {
		return s.Version == 2
	})).Return(nil).Once()
	f.activities.On("Log", mock.Anything, mock.Anything).Return(nil)

	snap, err := f.service().SaveSnapshot(context.Background(), "user1", forecast.SaveRequest{ProjectID: p.ID})
	require.NoError(t, err)
	require.Equal(t, 2, snap.Version)
	f.snapshots.AssertExpectations(t)
}

func TestForecastService_SaveSnapshotNarrative(t *testing.T) {
	p, costs, orders := scenarioA()
	f := newFixture()
	f.withLedgers(p, costs, orders, nil)
	f.snapshots.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.activities.On("Log", mock.Anything, mock.Anything).Return(nil)

	svc := f.service(forecast.WithNarrator(fixedNarrator{text: "Spending is steady."}))
	snap, err := svc.SaveSnapshot(context.Background(), "user1", forecast.SaveRequest{ProjectID: p.ID, GenerateNarrative: true})
	require.NoError(t, err)
	require.Equal(t, "Spending is steady.", *snap.AISummary)

	_, err = f.service().SaveSnapshot(context.Background(), "user1", forecast.SaveRequest{ProjectID: p.ID, GenerateNarrative: true})
	require.ErrorIs(t, err, forecast.ErrNarratorDisabled)

	// A configured but keyless narrator must not leave its placeholder behind.
	keyless := f.service(forecast.WithNarrator(fixedNarrator{text: "Enable Gemini API", disabled: true}))
	_, err = keyless.SaveSnapshot(context.Background(), "user1", forecast.SaveRequest{ProjectID: p.ID, GenerateNarrative: true})
	require.ErrorIs(t, err, forecast.ErrNarratorDisabled)
	f.snapshots.AssertNumberOfCalls(t, "Create", 1)
}

func TestForecastService_SaveSnapshotArchived(t *testing.T) {
	p, costs, orders := scenarioA()
	p.Status = project.StatusArchived
	f := newFixture()
	f.withLedgers(p, costs, orders, nil)

	_, err := f.service().SaveSnapshot(context.Background(), "user1", forecast.SaveRequest{ProjectID: p.ID})
	require.ErrorIs(t, err, project.ErrArchived)
	f.snapshots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestForecastService_ListSnapshotsUsesLimit(t *testing.T) {
	f := newFixture()
	f.projects.On("Access", mock.Anything, "user1", "proj1").Return(&project.Project{ID: "proj1"}, nil)
	f.snapshots.On("List", mock.Anything, "proj1", 3).Return([]forecast.Snapshot{{Version: 7}}, nil)

	got, err := f.service(forecast.WithListLimit(3)).ListSnapshots(context.Background(), "user1", "proj1")
	require.NoError(t, err)
	require.Len(t, got, 1)
}
