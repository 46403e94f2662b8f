package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/narrative"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, userID, projectID, email string) (*project.Project, error)
	ListOwned(ctx context.Context, userID string) ([]project.Project, error)
	ListShared(ctx context.Context, userID string) ([]project.Project, error)
	ListInvites(ctx context.Context, email string) ([]project.Project, error)
	Update(ctx context.Context, userID string, req project.UpdateRequest) (*project.Project, error)
	LockBaseline(ctx context.Context, userID, projectID string) (*project.Project, error)
	Archive(ctx context.Context, userID, projectID string) (*project.Project, error)
	Delete(ctx context.Context, userID, projectID string) error
	Invite(ctx context.Context, userID, projectID, email string) (*project.Project, error)
	RemoveInvite(ctx context.Context, userID, projectID, email string) (*project.Project, error)
	AcceptInvite(ctx context.Context, userID, projectID, email string) (*project.Project, error)
	DeclineInvite(ctx context.Context, projectID, email string) error
	RemoveCollaborator(ctx context.Context, userID, projectID, collaboratorID string) (*project.Project, error)
}

// CostService defines cost ledger operations needed by MCP.
type CostService interface {
	Add(ctx context.Context, userID string, req cost.AddRequest) (*cost.Cost, error)
	Edit(ctx context.Context, userID string, req cost.EditRequest) (*cost.Cost, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID, projectID string) ([]cost.Cost, error)
	Search(ctx context.Context, userID, projectID, query string, limit int) ([]cost.SearchResult, error)
}

// ChangeOrderService defines change order operations needed by MCP.
type ChangeOrderService interface {
	Create(ctx context.Context, userID string, req changeorder.CreateRequest) (*changeorder.ChangeOrder, error)
	Approve(ctx context.Context, userID, id string) (*changeorder.ChangeOrder, error)
	Reject(ctx context.Context, userID, id string) (*changeorder.ChangeOrder, error)
	List(ctx context.Context, userID, projectID string) ([]changeorder.ChangeOrder, error)
}

// ForecastService defines summary and snapshot operations needed by MCP.
type ForecastService interface {
	GetSummary(ctx context.Context, userID, projectID string) (*forecast.Summary, error)
	SaveSnapshot(ctx context.Context, userID string, req forecast.SaveRequest) (*forecast.Snapshot, error)
	ListSnapshots(ctx context.Context, userID, projectID string) ([]forecast.Snapshot, error)
}

// ActivityService defines audit log operations needed by MCP.
type ActivityService interface {
	List(ctx context.Context, userID string, opts activity.ListOptions) ([]activity.AuditLogEntry, error)
}

// NarrativeService generates optional AI commentary.
type NarrativeService interface {
	Generate(ctx context.Context, req narrative.Request) (narrative.Response, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects     ProjectService
	Costs        CostService
	ChangeOrders ChangeOrderService
	Forecasts    ForecastService
	Activity     ActivityService
	Narrative    NarrativeService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// DefaultUserID is the identity used when authentication is off.
const DefaultUserID = "local"

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "budgetline",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local use only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultUserID))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
