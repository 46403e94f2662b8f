package integration_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rpggio/budgetline/internal/app"
	"github.com/rpggio/budgetline/internal/config"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	ownerID = "owner"
)

type testEnv struct {
	db  *sqlite.DB
	svc *app.Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Default()
	cfg.AI.GeminiAPIKey = ""
	return &testEnv{db: db, svc: app.Wire(db, cfg, nil)}
}

func (e *testEnv) createProject(t *testing.T, baseline, overhead float64) *project.Project {
	t.Helper()
	proj, err := e.svc.Projects.Create(context.Background(), ownerID, project.CreateRequest{
		Name:            "Duplex build",
		BaselineBudget:  baseline,
		OverheadPercent: overhead,
		Currency:        "USD",
		StartDate:       "2024-01-01",
	})
	require.NoError(t, err)
	return proj
}

func (e *testEnv) addCost(t *testing.T, projectID string, amount float64, date string) *cost.Cost {
	t.Helper()
	c, err := e.svc.Costs.Add(context.Background(), ownerID, cost.AddRequest{
		ProjectID: projectID,
		Amount:    amount,
		Category:  "materials",
		Date:      date,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) createOrder(t *testing.T, projectID string, typ changeorder.Type, amount float64) *changeorder.ChangeOrder {
	t.Helper()
	order, err := e.svc.ChangeOrders.Create(context.Background(), ownerID, changeorder.CreateRequest{
		ProjectID:   projectID,
		Type:        typ,
		Amount:      amount,
		Description: "scope change",
	})
	require.NoError(t, err)
	return order
}

func TestIntegration_BudgetFollowsLedgers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 100000, 15)

	env.addCost(t, proj.ID, 20000, "2024-01-01")
	doomed := env.addCost(t, proj.ID, 5000, "2024-01-05")
	env.addCost(t, proj.ID, 10000, "2024-01-21")

	up := env.createOrder(t, proj.ID, changeorder.TypePositive, 8000)
	down := env.createOrder(t, proj.ID, changeorder.TypeNegative, 3000)
	ignored := env.createOrder(t, proj.ID, changeorder.TypePositive, 50000)

	_, err := env.svc.ChangeOrders.Approve(ctx, ownerID, up.ID)
	require.NoError(t, err)
	_, err = env.svc.ChangeOrders.Approve(ctx, ownerID, down.ID)
	require.NoError(t, err)
	_, err = env.svc.ChangeOrders.Reject(ctx, ownerID, ignored.ID)
	require.NoError(t, err)

	summary, err := env.svc.Forecasts.GetSummary(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Equal(t, 15000.0, summary.Figures.OverheadAmount)
	require.Equal(t, 5000.0, summary.Figures.ApprovedChangeOrderTotal)
	require.Equal(t, 120000.0, summary.Figures.TotalBudget)
	require.Equal(t, 35000.0, summary.Figures.CostToDate)
	require.Equal(t, 85000.0, summary.Figures.RemainingBudget)
	require.InDelta(t, 1750.0, summary.BurnRate, 1e-9)
	require.Equal(t, summary.Figures.TotalBudget, summary.ProjectedTotal)

	require.NoError(t, env.svc.Costs.Delete(ctx, ownerID, doomed.ID))

	summary, err = env.svc.Forecasts.GetSummary(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Equal(t, 30000.0, summary.Figures.CostToDate)
	require.Equal(t, 90000.0, summary.Figures.RemainingBudget)
	require.Equal(t, 2, summary.CostCount)
}

func TestIntegration_OverBudgetInsight(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 1000, 0)

	env.addCost(t, proj.ID, 900, "2024-01-01")
	env.addCost(t, proj.ID, 300, "2024-01-03")

	summary, err := env.svc.Forecasts.GetSummary(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Equal(t, -200.0, summary.Figures.RemainingBudget)
	require.Equal(t, forecast.CategoryOverBudget, summary.Insight.Category)
	require.Nil(t, summary.Insight.DaysOfRunway)
}

func TestIntegration_ChangeOrderDecidedOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 10000, 0)
	order := env.createOrder(t, proj.ID, changeorder.TypePositive, 500)

	var wins, conflicts atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 4; i++ {
		approve := i%2 == 0
		g.Go(func() error {
			var err error
			if approve {
				_, err = env.svc.ChangeOrders.Approve(gctx, ownerID, order.ID)
			} else {
				_, err = env.svc.ChangeOrders.Reject(gctx, ownerID, order.ID)
			}
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, changeorder.ErrInvalidTransition):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, int32(3), conflicts.Load())

	decided, err := env.svc.ChangeOrders.Get(ctx, ownerID, order.ID)
	require.NoError(t, err)
	require.NotEqual(t, changeorder.StatusPending, decided.Status)
	if decided.Status == changeorder.StatusApproved {
		require.NotNil(t, decided.ApprovedBy)
		require.Equal(t, ownerID, *decided.ApprovedBy)
	}
}

func TestIntegration_SnapshotVersionsAreUnique(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 5000, 0)
	env.addCost(t, proj.ID, 750, "2024-01-02")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 3; i++ {
		g.Go(func() error {
			_, err := env.svc.Forecasts.SaveSnapshot(gctx, ownerID, forecast.SaveRequest{ProjectID: proj.ID})
			return err
		})
	}
	require.NoError(t, g.Wait())

	snapshots, err := env.svc.Forecasts.ListSnapshots(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	seen := make(map[int]bool)
	for _, snap := range snapshots {
		require.False(t, seen[snap.Version], "duplicate version %d", snap.Version)
		seen[snap.Version] = true
		require.Equal(t, 750.0, snap.CostToDate)
		require.Equal(t, 4250.0, snap.RemainingBudget)
	}
	require.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)

	summary, err := env.svc.Forecasts.GetSummary(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.NotNil(t, summary.LatestSnapshot)
}

func TestIntegration_SnapshotNarrativeNeedsKey(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 5000, 0)

	_, err := env.svc.Forecasts.SaveSnapshot(ctx, ownerID, forecast.SaveRequest{ProjectID: proj.ID, GenerateNarrative: true})
	require.ErrorIs(t, err, forecast.ErrNarratorDisabled)

	snapshots, err := env.svc.Forecasts.ListSnapshots(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Empty(t, snapshots)
}

func TestIntegration_CollaborationLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 10000, 0)

	_, err := env.svc.Projects.Access(ctx, "guest", proj.ID)
	require.ErrorIs(t, err, project.ErrForbidden)

	invited, err := env.svc.Projects.Invite(ctx, ownerID, proj.ID, "  Guest@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, []string{"guest@example.com"}, invited.PendingInvites)

	invites, err := env.svc.Projects.ListInvites(ctx, "guest@example.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)

	_, err = env.svc.Projects.AcceptInvite(ctx, "guest", proj.ID, "other@example.com")
	require.ErrorIs(t, err, project.ErrInviteNotFound)

	joined, err := env.svc.Projects.AcceptInvite(ctx, "guest", proj.ID, "guest@example.com")
	require.NoError(t, err)
	require.Contains(t, joined.CollaboratorIDs, "guest")
	require.Empty(t, joined.PendingInvites)

	_, err = env.svc.Costs.Add(ctx, "guest", cost.AddRequest{
		ProjectID: proj.ID, Amount: 40, Category: "supplies", Date: "2024-01-02",
	})
	require.NoError(t, err)

	shared, err := env.svc.Projects.ListShared(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, shared, 1)

	err = env.svc.Projects.Delete(ctx, "guest", proj.ID)
	require.ErrorIs(t, err, project.ErrForbidden)

	_, err = env.svc.Projects.RemoveCollaborator(ctx, ownerID, proj.ID, "guest")
	require.NoError(t, err)
	_, err = env.svc.Forecasts.GetSummary(ctx, "guest", proj.ID)
	require.ErrorIs(t, err, project.ErrForbidden)
}

func TestIntegration_ArchivedProjectIsReadOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 10000, 0)
	env.addCost(t, proj.ID, 100, "2024-01-02")
	pending := env.createOrder(t, proj.ID, changeorder.TypePositive, 900)

	archived, err := env.svc.Projects.Archive(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Equal(t, project.StatusArchived, archived.Status)

	_, err = env.svc.Costs.Add(ctx, ownerID, cost.AddRequest{
		ProjectID: proj.ID, Amount: 1, Category: "misc", Date: "2024-01-03",
	})
	require.ErrorIs(t, err, project.ErrArchived)

	_, err = env.svc.ChangeOrders.Create(ctx, ownerID, changeorder.CreateRequest{
		ProjectID: proj.ID, Type: changeorder.TypePositive, Amount: 1, Description: "late",
	})
	require.ErrorIs(t, err, project.ErrArchived)

	_, err = env.svc.ChangeOrders.Approve(ctx, ownerID, pending.ID)
	require.ErrorIs(t, err, project.ErrArchived)

	_, err = env.svc.Forecasts.SaveSnapshot(ctx, ownerID, forecast.SaveRequest{ProjectID: proj.ID})
	require.ErrorIs(t, err, project.ErrArchived)

	summary, err := env.svc.Forecasts.GetSummary(ctx, ownerID, proj.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, summary.Figures.CostToDate)
	require.Equal(t, 10000.0, summary.Figures.TotalBudget)
}

func TestIntegration_AuditTrail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 10000, 0)

	c := env.addCost(t, proj.ID, 250, "2024-01-02")
	amount := 300.0
	_, err := env.svc.Costs.Edit(ctx, ownerID, cost.EditRequest{ID: c.ID, Amount: &amount})
	require.NoError(t, err)
	order := env.createOrder(t, proj.ID, changeorder.TypePositive, 100)
	_, err = env.svc.ChangeOrders.Approve(ctx, ownerID, order.ID)
	require.NoError(t, err)

	entries, err := env.svc.Audit.List(ctx, ownerID, activity.ListOptions{ProjectID: proj.ID})
	require.NoError(t, err)

	actions := make([]activity.Action, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	require.Equal(t, []activity.Action{
		activity.ActionChangeOrderApproved,
		activity.ActionChangeOrderAdded,
		activity.ActionCostEdited,
		activity.ActionCostAdded,
		activity.ActionProjectCreated,
	}, actions)

	edited := activity.ActionCostEdited
	filtered, err := env.svc.Audit.List(ctx, ownerID, activity.ListOptions{ProjectID: proj.ID, Action: &edited})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, ownerID, filtered[0].UserID)

	_, err = env.svc.Audit.List(ctx, "stranger", activity.ListOptions{ProjectID: proj.ID})
	require.ErrorIs(t, err, project.ErrForbidden)

	var buf bytes.Buffer
	require.NoError(t, activity.WriteCSV(&buf, entries))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(entries)+1)
}

func TestIntegration_CostSearch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.createProject(t, 10000, 0)

	for _, req := range []cost.AddRequest{
		{ProjectID: proj.ID, Amount: 120, Category: "electrical", Vendor: "Bright Sparks", Description: "panel upgrade", Date: "2024-01-02"},
		{ProjectID: proj.ID, Amount: 80, Category: "plumbing", Vendor: "Pipe Pros", Description: "water heater", Date: "2024-01-03"},
	} {
		_, err := env.svc.Costs.Add(ctx, ownerID, req)
		require.NoError(t, err)
	}

	results, err := env.svc.Costs.Search(ctx, ownerID, proj.ID, "panel", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Bright Sparks", results[0].Cost.Vendor)

	other := env.createProject(t, 500, 0)
	results, err = env.svc.Costs.Search(ctx, ownerID, other.ID, "panel", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}
