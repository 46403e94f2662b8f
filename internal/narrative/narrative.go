// Package narrative generates optional free-text commentary on project
// figures through the Gemini API (google.golang.org/genai). It augments the
// deterministic insight computed by the forecast package and never alters data.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"

	disabledSummary     = "AI insights are disabled. Set BUDGETLINE_GEMINI_API_KEY to enable."
	disabledExplainable = "No API key configured."
	disabledSuggestion  = "Enable Gemini API to get AI forecast suggestions."
	generatedExplain    = "This insight was generated from the project data you provided. No data was modified."
)

// Kind selects the prompt used for a narrative.
type Kind string

const (
	KindHealth         Kind = "health"
	KindForecastRisk   Kind = "forecast_risk"
	KindMonthlySummary Kind = "monthly_summary"
	KindCustom         Kind = "custom"
)

// ErrInvalidKind is returned for an unknown narrative kind.
var ErrInvalidKind = errors.New("invalid narrative kind")

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindHealth, KindForecastRisk, KindMonthlySummary, KindCustom:
		return true
	}
	return false
}

// Config configures the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Request asks for a narrative about a project.
type Request struct {
	Kind         Kind           `json:"kind"`
	ProjectID    string         `json:"project_id"`
	CustomPrompt string         `json:"custom_prompt,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
}

// Response is a generated narrative.
type Response struct {
	Summary          string   `json:"summary"`
	Explainable      string   `json:"explainable"`
	SuggestedActions []string `json:"suggested_actions"`
	Enabled          bool     `json:"enabled"`
}

// Client calls Gemini. A client without an API key is disabled and answers
// every request with a fixed explanatory message.
type Client struct {
	sdk    *genai.Client
	model  string
	logger *slog.Logger
}

// New creates a narrative client. A client that cannot be built is logged
// and left disabled.
func New(cfg Config, logger *slog.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{model: model, logger: logger}
	if cfg.APIKey == "" {
		return c
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
			Timeout: &timeout,
		},
	})
	if err != nil {
		logger.Warn("gemini client unavailable", "error", err)
		return c
	}
	c.sdk = client
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.sdk != nil
}

// Generate produces a narrative of the requested kind.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	if !req.Kind.Valid() {
		return Response{}, ErrInvalidKind
	}
	if !c.Enabled() {
		return Response{
			Summary:          disabledSummary,
			Explainable:      disabledExplainable,
			SuggestedActions: []string{},
		}, nil
	}

	prompt := fmt.Sprintf("You are a project budgeting assistant. %s\n\n%s", instruction(req), buildContext(req))
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Summary:          text,
		Explainable:      generatedExplain,
		SuggestedActions: []string{},
		Enabled:          true,
	}, nil
}

// ForecastSuggestion interprets the headline forecast figures in a few sentences.
func (c *Client) ForecastSuggestion(ctx context.Context, projectID string, costToDate, remainingBudget, burnRate float64) (string, error) {
	if !c.Enabled() {
		return disabledSuggestion, nil
	}
	prompt := fmt.Sprintf(
		"As a PM budgeting assistant, in 1-3 sentences suggest how to interpret these metrics. Do not change any numbers. Project: %s. Cost to date: %v. Remaining budget: %v. Burn rate: %v.",
		projectID, costToDate, remainingBudget, burnRate,
	)
	return c.generate(ctx, prompt)
}

func instruction(req Request) string {
	switch req.Kind {
	case KindHealth:
		return "Explain this project's financial health in 2-4 sentences. Be clear and actionable. Do not suggest changing any numbers."
	case KindForecastRisk:
		return "Assess forecast completion risk in 2-4 sentences. Mention burn rate and remaining budget if relevant. Do not suggest changing any data."
	case KindMonthlySummary:
		return "Summarize monthly spending in 2-4 sentences. Keep it factual. Do not suggest changing any data."
	default:
		custom := strings.TrimSpace(req.CustomPrompt)
		if custom == "" {
			custom = "Summarize the provided project context."
		}
		return custom + " Do not suggest changing any data."
	}
}

func buildContext(req Request) string {
	parts := []string{
		"Project ID: " + req.ProjectID,
		"Prompt type: " + string(req.Kind),
	}
	if req.CustomPrompt != "" {
		parts = append(parts, "Custom: "+req.CustomPrompt)
	}
	if len(req.Context) > 0 {
		data, err := json.MarshalIndent(req.Context, "", "  ")
		if err == nil {
			parts = append(parts, "Data context: "+string(data))
		}
	}
	return strings.Join(parts, "\n")
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	c.logger.Debug("gemini request", "model", c.model, "duration", time.Since(start), "error", err)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("gemini API error (status %d): %s", apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}
	return text, nil
}
