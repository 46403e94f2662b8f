package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_Disabled(t *testing.T) {
	c := New(Config{}, nil)
	require.False(t, c.Enabled())

	resp, err := c.Generate(context.Background(), Request{Kind: KindHealth, ProjectID: "p1"})
	require.NoError(t, err)
	require.False(t, resp.Enabled)
	require.Equal(t, disabledSummary, resp.Summary)

	text, err := c.ForecastSuggestion(context.Background(), "p1", 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, disabledSuggestion, text)
}

func TestGenerate_InvalidKind(t *testing.T) {
	c := New(Config{}, nil)
	_, err := c.Generate(context.Background(), Request{Kind: "poetry"})
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestGenerate_CallsGemini(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.Unmarshal(body, &req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Budget is healthy. "},{"text":"Keep going."}]}}]}`))
	}))
	defer server.Close()

	c := New(Config{APIKey: "secret", Model: "test-model", BaseURL: server.URL + "/"}, nil)
	require.True(t, c.Enabled())
	resp, err := c.Generate(context.Background(), Request{
		Kind:      KindForecastRisk,
		ProjectID: "p1",
		Context:   map[string]any{"burnRate": 100},
	})
	require.NoError(t, err)
	require.True(t, resp.Enabled)
	require.Equal(t, "Budget is healthy. Keep going.", resp.Summary)
	require.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)
	require.Equal(t, "secret", gotKey)
	require.Contains(t, gotPrompt, "Assess forecast completion risk")
	require.Contains(t, gotPrompt, `"burnRate": 100`)
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New(Config{APIKey: "secret", BaseURL: server.URL}, nil)
	_, err := c.ForecastSuggestion(context.Background(), "p1", 100, 900, 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 429")
}

func TestInstruction_Custom(t *testing.T) {
	got := instruction(Request{Kind: KindCustom, CustomPrompt: "List the top vendors."})
	require.True(t, strings.HasPrefix(got, "List the top vendors."))

	got = instruction(Request{Kind: KindCustom})
	require.True(t, strings.HasPrefix(got, "Summarize the provided project context."))
}
