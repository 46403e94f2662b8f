package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps how much of a request or result lands in the log.
// Summaries and audit pages can be large.
const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every MCP message at debug level. Tool calls
// also carry the tool name and how long the handler took.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			attrs := []any{"direction", direction, "method", method, "session_id", sessionIDOf(req)}
			if tool := toolNameOf(req); tool != "" {
				attrs = append(attrs, "tool", tool)
			}
			logger.Debug("mcp traffic", append(attrs, "stage", "request", "params", formatPayload(paramsOf(req)))...)

			start := time.Now()
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			attrs = append(attrs, "stage", "response", "elapsed", time.Since(start))
			if err != nil {
				logger.Debug("mcp traffic", append(attrs, "error", err)...)
			} else {
				logger.Debug("mcp traffic", append(attrs, "result", formatPayload(result))...)
			}
			return result, err
		}
	}
}

// Requests built by the SDK can carry typed nil params or sessions, so
// accessor panics are swallowed.
func sessionIDOf(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func paramsOf(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func toolNameOf(req sdkmcp.Request) string {
	if r, ok := req.(*sdkmcp.CallToolRequest); ok && r.Params != nil {
		return r.Params.Name
	}
	return ""
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s...(%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
