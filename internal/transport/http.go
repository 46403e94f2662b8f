package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/narrative"
)

// ProjectService defines the project operations exposed over REST.
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

// CostService defines the cost ledger operations exposed over REST.
type CostService interface {
	Add(ctx context.Context, userID string, req cost.AddRequest) (*cost.Cost, error)
	Edit(ctx context.Context, userID string, req cost.EditRequest) (*cost.Cost, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID, projectID string) ([]cost.Cost, error)
	Search(ctx context.Context, userID, projectID, query string, limit int) ([]cost.SearchResult, error)
}

// ChangeOrderService defines the change order operations exposed over REST.
type ChangeOrderService interface {
	Create(ctx context.Context, userID string, req changeorder.CreateRequest) (*changeorder.ChangeOrder, error)
	Approve(ctx context.Context, userID, id string) (*changeorder.ChangeOrder, error)
	Reject(ctx context.Context, userID, id string) (*changeorder.ChangeOrder, error)
	List(ctx context.Context, userID, projectID string) ([]changeorder.ChangeOrder, error)
}

// ForecastService defines the summary and snapshot operations exposed over REST.
type ForecastService interface {
	GetSummary(ctx context.Context, userID, projectID string) (*forecast.Summary, error)
	SaveSnapshot(ctx context.Context, userID string, req forecast.SaveRequest) (*forecast.Snapshot, error)
	ListSnapshots(ctx context.Context, userID, projectID string) ([]forecast.Snapshot, error)
}

// ActivityService lists audit entries.
type ActivityService interface {
	List(ctx context.Context, userID string, opts activity.ListOptions) ([]activity.AuditLogEntry, error)
}

// NarrativeService generates optional AI commentary.
type NarrativeService interface {
	Generate(ctx context.Context, req narrative.Request) (narrative.Response, error)
}

// Services contains the domain services behind the REST API.
type Services struct {
	Projects     ProjectService
	Costs        CostService
	ChangeOrders ChangeOrderService
	Forecasts    ForecastService
	Activity     ActivityService
	Narrative    NarrativeService
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates the HTTP router. The REST API lives under /api behind
// authMiddleware; mcpHandler, when set, is mounted at /mcp and authenticates
// on its own.
func NewServer(svc Services, mcpHandler http.Handler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Use(requireIdentity)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", srv.listProjects)
			r.Post("/", srv.createProject)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", srv.getProject)
				r.Patch("/", srv.updateProject)
				r.Delete("/", srv.deleteProject)
				r.Post("/lock", srv.lockBaseline)
				r.Post("/archive", srv.archiveProject)

				r.Post("/invites", srv.inviteCollaborator)
				r.Post("/invites/accept", srv.acceptInvite)
				r.Post("/invites/decline", srv.declineInvite)
				r.Delete("/invites/{email}", srv.removeInvite)
				r.Delete("/collaborators/{userID}", srv.removeCollaborator)

				r.Get("/summary", srv.getSummary)
				r.Get("/costs", srv.listCosts)
				r.Post("/costs", srv.addCost)
				r.Get("/costs/search", srv.searchCosts)
				r.Get("/change-orders", srv.listChangeOrders)
				r.Post("/change-orders", srv.createChangeOrder)
				r.Get("/forecasts", srv.listSnapshots)
				r.Post("/forecasts", srv.saveSnapshot)
				r.Get("/audit", srv.listAudit)
				r.Post("/insights", srv.generateInsight)
			})
		})

		r.Patch("/costs/{costID}", srv.editCost)
		r.Delete("/costs/{costID}", srv.deleteCost)
		r.Post("/change-orders/{changeOrderID}/approve", srv.approveChangeOrder)
		r.Post("/change-orders/{changeOrderID}/reject", srv.rejectChangeOrder)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := IdentityFromContext(r.Context()); !ok || id.UserID == "" {
			writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// fail writes err and logs anything that is not a known domain error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := statusFor(err); status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}

func caller(r *http.Request) Identity {
	id, _ := IdentityFromContext(r.Context())
	return id
}
