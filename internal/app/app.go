// Package app wires repositories and domain services together. It is shared
// by the server, the operator CLI and the test harness.
package app

import (
	"log/slog"

	"github.com/rpggio/budgetline/internal/config"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/mcp"
	"github.com/rpggio/budgetline/internal/narrative"
	"github.com/rpggio/budgetline/internal/sqlite"
	"github.com/rpggio/budgetline/internal/transport"
)

// Services holds every wired domain service.
type Services struct {
	Projects     *project.Service
	Costs        *cost.Service
	ChangeOrders *changeorder.Service
	Forecasts    *forecast.Service
	Audit        *activity.Service
	Narrative    *narrative.Client
	APIKeys      *sqlite.APIKeyRepository
}

// Wire builds the services on top of db.
func Wire(db *sqlite.DB, cfg config.Config, logger *slog.Logger) *Services {
	activityRepo := sqlite.NewActivityRepository(db)
	costRepo := sqlite.NewCostRepository(db)
	orderRepo := sqlite.NewChangeOrderRepository(db)

	// Mutating services only append, so the writer needs no access check.
	// Listing goes through the project service to enforce membership.
	auditWriter := activity.NewService(activityRepo, nil, cfg.Forecast.AuditListLimit, logger)
	projects := project.NewService(sqlite.NewProjectRepository(db), auditWriter, logger)
	audit := activity.NewService(activityRepo, projects, cfg.Forecast.AuditListLimit, logger)

	narrator := narrative.New(narrative.Config{
		APIKey:  cfg.AI.GeminiAPIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	}, logger)

	return &Services{
		Projects:     projects,
		Costs:        cost.NewService(costRepo, sqlite.NewSearchRepository(db), projects, auditWriter, logger),
		ChangeOrders: changeorder.NewService(orderRepo, projects, auditWriter, logger),
		Forecasts: forecast.NewService(projects, costRepo, orderRepo, sqlite.NewForecastRepository(db), auditWriter, logger,
			forecast.WithNarrator(narrator),
			forecast.WithListLimit(cfg.Forecast.SnapshotListLimit),
		),
		Audit:     audit,
		Narrative: narrator,
		APIKeys:   sqlite.NewAPIKeyRepository(db),
	}
}

// MCP returns the services in the shape the MCP server expects.
func (s *Services) MCP() mcp.Services {
	return mcp.Services{
		Projects:     s.Projects,
		Costs:        s.Costs,
		ChangeOrders: s.ChangeOrders,
		Forecasts:    s.Forecasts,
		Activity:     s.Audit,
		Narrative:    s.Narrative,
	}
}

// REST returns the services in the shape the HTTP API expects.
func (s *Services) REST() transport.Services {
	return transport.Services{
		Projects:     s.Projects,
		Costs:        s.Costs,
		ChangeOrders: s.ChangeOrders,
		Forecasts:    s.Forecasts,
		Activity:     s.Audit,
		Narrative:    s.Narrative,
	}
}
