package transport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/testserver"
	"github.com/rpggio/budgetline/internal/transport"
	"github.com/stretchr/testify/require"
)

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c client) do(method, path string, body any) *http.Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c client) expect(method, path string, body any, status int, out any) {
	c.t.Helper()
	resp := c.do(method, path, body)
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	require.Equal(c.t, status, resp.StatusCode, string(data))
	if out != nil {
		require.NoError(c.t, json.Unmarshal(data, out))
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body transport.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func setup(t *testing.T) (*testserver.TestServer, client) {
	ts := testserver.New(t, "owner-token", "owner", "owner@example.com")
	return ts, client{t: t, base: ts.Server.URL, token: ts.Token}
}

func createProject(c client) project.Project {
	var proj project.Project
	c.expect(http.MethodPost, "/api/projects", map[string]any{
		"name":             "Office fit-out",
		"baseline_budget":  10000,
		"overhead_percent": 10,
		"currency":         "USD",
		"start_date":       "2024-01-01",
	}, http.StatusCreated, &proj)
	return proj
}

func TestHTTPServer_Health(t *testing.T) {
	ts, _ := setup(t)

	resp, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_RequiresToken(t *testing.T) {
	ts, _ := setup(t)
	anon := client{t: t, base: ts.Server.URL}

	resp := anon.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestHTTPServer_ProjectLifecycle(t *testing.T) {
	_, c := setup(t)
	proj := createProject(c)
	require.Equal(t, project.StatusActive, proj.Status)
	require.Equal(t, 1000.0, proj.OverheadAmount)

	var list transport.ProjectList
	c.expect(http.MethodGet, "/api/projects", nil, http.StatusOK, &list)
	require.Len(t, list.Owned, 1)
	require.Empty(t, list.Shared)

	var updated project.Project
	c.expect(http.MethodPatch, "/api/projects/"+proj.ID, map[string]any{"overhead_percent": 20}, http.StatusOK, &updated)
	require.Equal(t, 2000.0, updated.OverheadAmount)

	var archived project.Project
	c.expect(http.MethodPost, "/api/projects/"+proj.ID+"/archive", nil, http.StatusOK, &archived)
	require.Equal(t, project.StatusArchived, archived.Status)

	resp := c.do(http.MethodPost, "/api/projects/"+proj.ID+"/costs", map[string]any{
		"amount": 10, "category": "misc", "date": "2024-01-02",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "ARCHIVED", errorCode(t, resp))

	c.expect(http.MethodDelete, "/api/projects/"+proj.ID, nil, http.StatusNoContent, nil)
	resp = c.do(http.MethodGet, "/api/projects/"+proj.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_CostsAndSearch(t *testing.T) {
	_, c := setup(t)
	proj := createProject(c)

	var lumber cost.Cost
	c.expect(http.MethodPost, "/api/projects/"+proj.ID+"/costs", map[string]any{
		"amount": 1200, "category": "materials", "vendor": "Acme Lumber", "description": "studs and drywall", "date": "2024-01-03",
	}, http.StatusCreated, &lumber)
	c.expect(http.MethodPost, "/api/projects/"+proj.ID+"/costs", map[string]any{
		"amount": 300, "category": "labor", "vendor": "Sparks Electric", "date": "2024-01-04",
	}, http.StatusCreated, nil)

	var results []cost.SearchResult
	c.expect(http.MethodGet, "/api/projects/"+proj.ID+"/costs/search?q=lumber", nil, http.StatusOK, &results)
	require.Len(t, results, 1)
	require.Equal(t, lumber.ID, results[0].Cost.ID)

	var edited cost.Cost
	c.expect(http.MethodPatch, "/api/costs/"+lumber.ID, map[string]any{"amount": 1100}, http.StatusOK, &edited)
	require.Equal(t, 1100.0, edited.Amount)
	require.Equal(t, "Acme Lumber", edited.Vendor)

	resp := c.do(http.MethodPost, "/api/projects/"+proj.ID+"/costs", map[string]any{
		"amount": -5, "category": "materials", "date": "2024-01-03",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "INVALID_INPUT", errorCode(t, resp))

	c.expect(http.MethodDelete, "/api/costs/"+lumber.ID, nil, http.StatusNoContent, nil)
	var costs []cost.Cost
	c.expect(http.MethodGet, "/api/projects/"+proj.ID+"/costs", nil, http.StatusOK, &costs)
	require.Len(t, costs, 1)
}

func TestHTTPServer_ChangeOrderDecisions(t *testing.T) {
	_, c := setup(t)
	proj := createProject(c)

	var order changeorder.ChangeOrder
	c.expect(http.MethodPost, "/api/projects/"+proj.ID+"/change-orders", map[string]any{
		"type": "positive", "amount": 2000, "description": "extra room",
	}, http.StatusCreated, &order)
	require.Equal(t, changeorder.StatusPending, order.Status)

	var summary forecast.Summary
	c.expect(http.MethodGet, "/api/projects/"+proj.ID+"/summary", nil, http.StatusOK, &summary)
	require.Equal(t, 11000.0, summary.Figures.TotalBudget)

	c.expect(http.MethodPost, "/api/change-orders/"+order.ID+"/approve", nil, http.StatusOK, &order)
	require.Equal(t, changeorder.StatusApproved, order.Status)

	resp := c.do(http.MethodPost, "/api/change-orders/"+order.ID+"/reject", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "INVALID_TRANSITION", errorCode(t, resp))

	c.expect(http.MethodGet, "/api/projects/"+proj.ID+"/summary", nil, http.StatusOK, &summary)
	require.Equal(t, 13000.0, summary.Figures.TotalBudget)
	require.Equal(t, forecast.CategoryNoData, summary.Insight.Category)
}

func TestHTTPServer_CollaboratorAccess(t *testing.T) {
	ts, owner := setup(t)
	require.NoError(t, ts.AddAPIKey("guest-token", "guest", "Guest@Example.com"))
	guest := client{t: t, base: ts.Server.URL, token: "guest-token"}

	proj := createProject(owner)

	resp := guest.do(http.MethodGet, "/api/projects/"+proj.ID+"/summary", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", errorCode(t, resp))

	owner.expect(http.MethodPost, "/api/projects/"+proj.ID+"/invites", map[string]any{"email": " guest@example.com "}, http.StatusOK, nil)

	var list transport.ProjectList
	guest.expect(http.MethodGet, "/api/projects", nil, http.StatusOK, &list)
	require.Len(t, list.Invites, 1)

	var joined project.Project
	guest.expect(http.MethodPost, "/api/projects/"+proj.ID+"/invites/accept", nil, http.StatusOK, &joined)
	require.Contains(t, joined.CollaboratorIDs, "guest")
	require.Empty(t, joined.PendingInvites)

	guest.expect(http.MethodPost, "/api/projects/"+proj.ID+"/costs", map[string]any{
		"amount": 50, "category": "supplies", "date": "2024-01-05",
	}, http.StatusCreated, nil)

	resp = guest.do(http.MethodDelete, "/api/projects/"+proj.ID, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHTTPServer_SnapshotsAndAuditCSV(t *testing.T) {
	_, c := setup(t)
	proj := createProject(c)

	c.expect(http.MethodPost, "/api/projects/"+proj.ID+"/costs", map[string]any{
		"amount": 400, "category": "permits", "date": "2024-01-02",
	}, http.StatusCreated, nil)

	var snap forecast.Snapshot
	c.expect(http.MethodPost, "/api/projects/"+proj.ID+"/forecasts", map[string]any{}, http.StatusCreated, &snap)
	require.Equal(t, 1, snap.Version)
	require.Equal(t, 400.0, snap.CostToDate)

	var snapshots []forecast.Snapshot
	c.expect(http.MethodGet, "/api/projects/"+proj.ID+"/forecasts", nil, http.StatusOK, &snapshots)
	require.Len(t, snapshots, 1)

	resp := c.do(http.MethodGet, "/api/projects/"+proj.ID+"/audit?format=csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "Date,Action,User,Metadata", strings.TrimSpace(lines[0]))
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], `"forecast_updated"`)
	require.Contains(t, lines[3], `"project_created"`)
}

func TestHTTPServer_RejectsUnknownFields(t *testing.T) {
	_, c := setup(t)

	resp := c.do(http.MethodPost, "/api/projects", map[string]any{"name": "x", "budget": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "BAD_REQUEST", errorCode(t, resp))
}
