package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/stretchr/testify/require"
)

type staticResolver map[string][2]string

func (r staticResolver) ResolveUser(_ context.Context, token string) (string, string, error) {
	id, ok := r[token]
	if !ok {
		return "", "", errors.New("unknown token")
	}
	return id[0], id[1], nil
}

func toolRequest(header http.Header) *sdkmcp.CallToolRequest {
	return &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "list_projects"},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	}
}

func TestAuthMiddleware_ResolvesIdentity(t *testing.T) {
	var gotUser, gotEmail string
	next := func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		gotUser, gotEmail = getUserID(ctx), getEmail(ctx)
		return nil, nil
	}
	handler := authMiddleware(staticResolver{"tok": {"alice", "alice@example.com"}})(next)

	header := http.Header{}
	header.Set("Authorization", "Bearer tok")
	_, err := handler(context.Background(), "tools/call", toolRequest(header))
	require.NoError(t, err)
	require.Equal(t, "alice", gotUser)
	require.Equal(t, "alice@example.com", gotEmail)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		t.Fatal("next must not run")
		return nil, nil
	}
	handler := authMiddleware(staticResolver{})(next)

	_, err := handler(context.Background(), "tools/call", toolRequest(http.Header{}))
	require.ErrorContains(t, err, "missing bearer token")

	header := http.Header{}
	header.Set("Authorization", "Bearer nope")
	_, err = handler(context.Background(), "tools/call", toolRequest(header))
	require.ErrorContains(t, err, "unauthorized")
}

func TestAuthMiddleware_SkipsProtocolMethods(t *testing.T) {
	called := false
	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		called = true
		return nil, nil
	}
	handler := authMiddleware(staticResolver{})(next)

	_, err := handler(context.Background(), "ping", toolRequest(nil))
	require.NoError(t, err)
	require.True(t, called)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))

	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("approve: %w", changeorder.ErrInvalidTransition), "INVALID_TRANSITION"},
		{project.ErrForbidden, "FORBIDDEN"},
		{project.ErrArchived, "ARCHIVED"},
		{cost.ErrCostNotFound, "COST_NOT_FOUND"},
		{fmt.Errorf("%w: category is required", cost.ErrInvalidInput), "INVALID_INPUT"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, tc.err.Error())
		require.Equal(t, tc.code, apiErr.Code)
	}
}

func TestTrafficLogging_ToolNameAndTruncation(t *testing.T) {
	require.Equal(t, "list_projects", toolNameOf(toolRequest(nil)))
	require.Empty(t, toolNameOf(nil))

	require.Equal(t, "<nil>", formatPayload(nil))
	require.Equal(t, `{"a":1}`, formatPayload(map[string]int{"a": 1}))

	long := formatPayload(strings.Repeat("x", maxLoggedPayload*2))
	require.True(t, strings.HasSuffix(long, fmt.Sprintf("...(%d bytes)", maxLoggedPayload*2+2)))
}
