package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/budgetline/internal/app"
	"github.com/rpggio/budgetline/internal/config"
	"github.com/rpggio/budgetline/internal/mcp"
	"github.com/rpggio/budgetline/internal/sqlite"
	"github.com/rpggio/budgetline/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer runs the full HTTP stack over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Services *app.Services
	Token    string
	UserID   string
	Email    string
}

// Option adjusts the configuration before wiring.
type Option func(*config.Config)

// WithAIBaseURL points the narrative client at a fake Gemini endpoint.
func WithAIBaseURL(baseURL, apiKey string) Option {
	return func(cfg *config.Config) {
		cfg.AI.BaseURL = baseURL
		cfg.AI.GeminiAPIKey = apiKey
	}
}

// New starts a server with auth enabled and registers token for userID.
func New(t *testing.T, token, userID, email string, opts ...Option) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.AI.GeminiAPIKey = ""
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := sqlite.New(cfg.DB.Path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	services := app.Wire(db, cfg, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services.MCP(),
		Resolver:      services.APIKeys,
		AuthEnabled:   true,
		TransportMode: config.TransportHTTP,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true, JSONResponse: true},
	)

	router := transport.NewServer(services.REST(), mcpHandler, transport.AuthMiddleware(services.APIKeys), nil)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Services: services,
		Token:    token,
		UserID:   userID,
		Email:    email,
	}

	require.NoError(t, ts.AddAPIKey(token, userID, email))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another caller.
func (ts *TestServer) AddAPIKey(token, userID, email string) error {
	return ts.Services.APIKeys.Create(context.Background(), token, userID, email, "test")
}
