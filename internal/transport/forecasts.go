package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/narrative"
)

type snapshotBody struct {
	ManualOverride    *float64 `json:"manual_override"`
	AISummary         *string  `json:"ai_summary"`
	GenerateNarrative bool     `json:"generate_narrative"`
}

type insightBody struct {
	Kind         string `json:"kind"`
	CustomPrompt string `json:"custom_prompt"`
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Forecasts.GetSummary(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.svc.Forecasts.ListSnapshots(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(snapshots))
}

func (s *Server) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	var body snapshotBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.svc.Forecasts.SaveSnapshot(r.Context(), caller(r).UserID, forecast.SaveRequest{
		ProjectID:         chi.URLParam(r, "projectID"),
		ManualOverride:    body.ManualOverride,
		AISummary:         body.AISummary,
		GenerateNarrative: body.GenerateNarrative,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// listAudit returns JSON by default and CSV when format=csv.
func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := activity.ListOptions{
		ProjectID: chi.URLParam(r, "projectID"),
		Limit:     limit,
		Offset:    offset,
	}
	if raw := query.Get("action"); raw != "" {
		action := activity.Action(raw)
		opts.Action = &action
	}
	if raw := query.Get("user_id"); raw != "" {
		opts.UserID = &raw
	}

	entries, err := s.svc.Activity.List(r.Context(), caller(r).UserID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if query.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="audit-`+opts.ProjectID+`.csv"`)
		if err := activity.WriteCSV(w, entries); err != nil {
			s.logger.Error("writing audit csv", "project_id", opts.ProjectID, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) generateInsight(w http.ResponseWriter, r *http.Request) {
	if s.svc.Narrative == nil {
		s.fail(w, r, forecast.ErrNarratorDisabled)
		return
	}
	var body insightBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	summary, err := s.svc.Forecasts.GetSummary(r.Context(), caller(r).UserID, projectID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp, err := s.svc.Narrative.Generate(r.Context(), narrative.Request{
		Kind:         narrative.Kind(body.Kind),
		ProjectID:    projectID,
		CustomPrompt: body.CustomPrompt,
		Context: map[string]any{
			"currency":         summary.Currency,
			"total_budget":     summary.Figures.TotalBudget,
			"cost_to_date":     summary.Figures.CostToDate,
			"remaining_budget": summary.Figures.RemainingBudget,
			"burn_rate":        summary.BurnRate,
			"percent_spent":    summary.PercentSpent,
			"insight":          summary.Insight.Text,
		},
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
