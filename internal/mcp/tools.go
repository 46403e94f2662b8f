package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/narrative"
)

// addTool registers a typed tool whose result is returned as JSON text.
func addTool[In any](server *sdkmcp.Server, name, description string, fn func(ctx context.Context, in In) (any, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			out, err := fn(ctx, in)
			if err != nil {
				return nil, nil, toolError(err)
			}
			return jsonResult(out)
		})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func registerTools(server *sdkmcp.Server, svc Services) {
	registerProjectTools(server, svc)
	registerCostTools(server, svc)
	registerChangeOrderTools(server, svc)
	registerForecastTools(server, svc)
}

func registerProjectTools(server *sdkmcp.Server, svc Services) {
	addTool(server, "create_project", "Create a project with a baseline budget and overhead percentage.",
		func(ctx context.Context, in CreateProjectParams) (any, error) {
			return svc.Projects.Create(ctx, getUserID(ctx), project.CreateRequest{
				Name:            in.Name,
				Description:     in.Description,
				BaselineBudget:  in.BaselineBudget,
				OverheadPercent: in.OverheadPercent,
				Currency:        in.Currency,
				StartDate:       in.StartDate,
				EndDate:         in.EndDate,
			})
		})

	addTool(server, "get_project", "Get a project by ID.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Projects.Get(ctx, getUserID(ctx), in.ProjectID, getEmail(ctx))
		})

	addTool(server, "list_projects", "List projects you own, projects shared with you, and pending invitations.",
		func(ctx context.Context, _ struct{}) (any, error) {
			userID := getUserID(ctx)
			owned, err := svc.Projects.ListOwned(ctx, userID)
			if err != nil {
				return nil, err
			}
			shared, err := svc.Projects.ListShared(ctx, userID)
			if err != nil {
				return nil, err
			}
			resp := ProjectListResponse{Owned: owned, Shared: shared, Invites: []project.Project{}}
			if email := getEmail(ctx); email != "" {
				invites, err := svc.Projects.ListInvites(ctx, email)
				if err != nil {
					return nil, err
				}
				resp.Invites = invites
			}
			return resp, nil
		})

	addTool(server, "update_project", "Partially update a project. Overhead amount is recomputed.",
		func(ctx context.Context, in UpdateProjectParams) (any, error) {
			return svc.Projects.Update(ctx, getUserID(ctx), project.UpdateRequest{
				ID:              in.ProjectID,
				Name:            in.Name,
				Description:     in.Description,
				BaselineBudget:  in.BaselineBudget,
				OverheadPercent: in.OverheadPercent,
				Currency:        in.Currency,
				StartDate:       in.StartDate,
				EndDate:         in.EndDate,
				ClearEndDate:    in.ClearEndDate,
			})
		})

	addTool(server, "lock_baseline", "Mark the project's baseline budget as locked.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Projects.LockBaseline(ctx, getUserID(ctx), in.ProjectID)
		})

	addTool(server, "archive_project", "Archive a project, making it read-only.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Projects.Archive(ctx, getUserID(ctx), in.ProjectID)
		})

	addTool(server, "delete_project", "Delete a project and all of its costs, change orders, snapshots and audit entries. Owner only.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			if err := svc.Projects.Delete(ctx, getUserID(ctx), in.ProjectID); err != nil {
				return nil, err
			}
			return DeletedResponse{ID: in.ProjectID, Deleted: true}, nil
		})

	addTool(server, "invite_collaborator", "Invite a collaborator by email.",
		func(ctx context.Context, in InviteParams) (any, error) {
			return svc.Projects.Invite(ctx, getUserID(ctx), in.ProjectID, in.Email)
		})

	addTool(server, "remove_invite", "Withdraw a pending invitation.",
		func(ctx context.Context, in InviteParams) (any, error) {
			return svc.Projects.RemoveInvite(ctx, getUserID(ctx), in.ProjectID, in.Email)
		})

	addTool(server, "accept_invite", "Accept a pending invitation addressed to your email.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Projects.AcceptInvite(ctx, getUserID(ctx), in.ProjectID, getEmail(ctx))
		})

	addTool(server, "decline_invite", "Decline a pending invitation addressed to your email.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			if err := svc.Projects.DeclineInvite(ctx, in.ProjectID, getEmail(ctx)); err != nil {
				return nil, err
			}
			return map[string]bool{"declined": true}, nil
		})

	addTool(server, "remove_collaborator", "Remove a collaborator from a project.",
		func(ctx context.Context, in RemoveCollaboratorParams) (any, error) {
			return svc.Projects.RemoveCollaborator(ctx, getUserID(ctx), in.ProjectID, in.UserID)
		})
}

func registerCostTools(server *sdkmcp.Server, svc Services) {
	addTool(server, "add_cost", "Record a cost against a project.",
		func(ctx context.Context, in AddCostParams) (any, error) {
			return svc.Costs.Add(ctx, getUserID(ctx), cost.AddRequest{
				ProjectID:     in.ProjectID,
				Amount:        in.Amount,
				Category:      in.Category,
				Vendor:        in.Vendor,
				Description:   in.Description,
				Date:          in.Date,
				DeductionType: cost.DeductionType(in.DeductionType),
			})
		})

	addTool(server, "edit_cost", "Partially edit a cost.",
		func(ctx context.Context, in EditCostParams) (any, error) {
			req := cost.EditRequest{
				ID:          in.CostID,
				Amount:      in.Amount,
				Category:    in.Category,
				Vendor:      in.Vendor,
				Description: in.Description,
				Date:        in.Date,
			}
			if in.DeductionType != nil {
				d := cost.DeductionType(*in.DeductionType)
				req.DeductionType = &d
			}
			return svc.Costs.Edit(ctx, getUserID(ctx), req)
		})

	addTool(server, "delete_cost", "Delete a cost.",
		func(ctx context.Context, in CostIDParams) (any, error) {
			if err := svc.Costs.Delete(ctx, getUserID(ctx), in.CostID); err != nil {
				return nil, err
			}
			return DeletedResponse{ID: in.CostID, Deleted: true}, nil
		})

	addTool(server, "list_costs", "List a project's costs, newest economic date first.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Costs.List(ctx, getUserID(ctx), in.ProjectID)
		})

	addTool(server, "search_costs", "Full-text search over cost vendor, category and description.",
		func(ctx context.Context, in SearchCostsParams) (any, error) {
			return svc.Costs.Search(ctx, getUserID(ctx), in.ProjectID, in.Query, in.Limit)
		})
}

func registerChangeOrderTools(server *sdkmcp.Server, svc Services) {
	addTool(server, "create_change_order", "Submit a pending change order. It only affects the budget once approved.",
		func(ctx context.Context, in CreateChangeOrderParams) (any, error) {
			return svc.ChangeOrders.Create(ctx, getUserID(ctx), changeorder.CreateRequest{
				ProjectID:   in.ProjectID,
				Type:        changeorder.Type(in.Type),
				Amount:      in.Amount,
				Description: in.Description,
			})
		})

	addTool(server, "approve_change_order", "Approve a pending change order.",
		func(ctx context.Context, in ChangeOrderIDParams) (any, error) {
			return svc.ChangeOrders.Approve(ctx, getUserID(ctx), in.ChangeOrderID)
		})

	addTool(server, "reject_change_order", "Reject a pending change order.",
		func(ctx context.Context, in ChangeOrderIDParams) (any, error) {
			return svc.ChangeOrders.Reject(ctx, getUserID(ctx), in.ChangeOrderID)
		})

	addTool(server, "list_change_orders", "List a project's change orders.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.ChangeOrders.List(ctx, getUserID(ctx), in.ProjectID)
		})
}

func registerForecastTools(server *sdkmcp.Server, svc Services) {
	addTool(server, "get_project_summary", "Budget figures, burn rate, completion projection and insight for a project.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Forecasts.GetSummary(ctx, getUserID(ctx), in.ProjectID)
		})

	addTool(server, "save_forecast_snapshot", "Record an immutable, versioned forecast snapshot.",
		func(ctx context.Context, in SaveSnapshotParams) (any, error) {
			return svc.Forecasts.SaveSnapshot(ctx, getUserID(ctx), forecast.SaveRequest{
				ProjectID:         in.ProjectID,
				ManualOverride:    in.ManualOverride,
				AISummary:         in.AISummary,
				GenerateNarrative: in.GenerateNarrative,
			})
		})

	addTool(server, "list_forecast_snapshots", "List the most recent forecast snapshots.",
		func(ctx context.Context, in ProjectIDParams) (any, error) {
			return svc.Forecasts.ListSnapshots(ctx, getUserID(ctx), in.ProjectID)
		})

	addTool(server, "get_audit_log", "List the project's audit entries, newest first.",
		func(ctx context.Context, in AuditLogParams) (any, error) {
			opts := activity.ListOptions{
				ProjectID: in.ProjectID,
				UserID:    in.UserID,
				Limit:     in.Limit,
				Offset:    in.Offset,
			}
			if in.Action != nil {
				action := activity.Action(*in.Action)
				opts.Action = &action
			}
			entries, err := svc.Activity.List(ctx, getUserID(ctx), opts)
			if err != nil {
				return nil, err
			}
			if entries == nil {
				entries = []activity.AuditLogEntry{}
			}
			return AuditLogResponse{Entries: entries}, nil
		})

	addTool(server, "generate_insight", "AI commentary on the project's figures. The deterministic insight in get_project_summary is always authoritative.",
		func(ctx context.Context, in InsightParams) (any, error) {
			if svc.Narrative == nil {
				return nil, forecast.ErrNarratorDisabled
			}
			summary, err := svc.Forecasts.GetSummary(ctx, getUserID(ctx), in.ProjectID)
			if err != nil {
				return nil, err
			}
			return svc.Narrative.Generate(ctx, narrative.Request{
				Kind:         narrative.Kind(in.Kind),
				ProjectID:    in.ProjectID,
				CustomPrompt: in.CustomPrompt,
				Context:      summaryContext(summary),
			})
		})
}

func summaryContext(s *forecast.Summary) map[string]any {
	return map[string]any{
		"currency":         s.Currency,
		"total_budget":     s.Figures.TotalBudget,
		"cost_to_date":     s.Figures.CostToDate,
		"remaining_budget": s.Figures.RemainingBudget,
		"burn_rate":        s.BurnRate,
		"percent_spent":    s.PercentSpent,
		"insight":          s.Insight.Text,
	}
}
