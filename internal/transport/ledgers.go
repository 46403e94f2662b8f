package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/domain/cost"
)

type addCostBody struct {
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Vendor        string  `json:"vendor"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	DeductionType string  `json:"deduction_type"`
}

type editCostBody struct {
	Amount        *float64 `json:"amount"`
	Category      *string  `json:"category"`
	Vendor        *string  `json:"vendor"`
	Description   *string  `json:"description"`
	Date          *string  `json:"date"`
	DeductionType *string  `json:"deduction_type"`
}

type changeOrderBody struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (s *Server) listCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := s.svc.Costs.List(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(costs))
}

func (s *Server) addCost(w http.ResponseWriter, r *http.Request) {
	var body addCostBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Costs.Add(r.Context(), caller(r).UserID, cost.AddRequest{
		ProjectID:     chi.URLParam(r, "projectID"),
		Amount:        body.Amount,
		Category:      body.Category,
		Vendor:        body.Vendor,
		Description:   body.Description,
		Date:          body.Date,
		DeductionType: cost.DeductionType(body.DeductionType),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) searchCosts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	results, err := s.svc.Costs.Search(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(results))
}

func (s *Server) editCost(w http.ResponseWriter, r *http.Request) {
	var body editCostBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	req := cost.EditRequest{
		ID:          chi.URLParam(r, "costID"),
		Amount:      body.Amount,
		Category:    body.Category,
		Vendor:      body.Vendor,
		Description: body.Description,
		Date:        body.Date,
	}
	if body.DeductionType != nil {
		d := cost.DeductionType(*body.DeductionType)
		req.DeductionType = &d
	}
	c, err := s.svc.Costs.Edit(r.Context(), caller(r).UserID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCost(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Costs.Delete(r.Context(), caller(r).UserID, chi.URLParam(r, "costID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listChangeOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.ChangeOrders.List(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

func (s *Server) createChangeOrder(w http.ResponseWriter, r *http.Request) {
	var body changeOrderBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	order, err := s.svc.ChangeOrders.Create(r.Context(), caller(r).UserID, changeorder.CreateRequest{
		ProjectID:   chi.URLParam(r, "projectID"),
		Type:        changeorder.Type(body.Type),
		Amount:      body.Amount,
		Description: body.Description,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) approveChangeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.ChangeOrders.Approve(r.Context(), caller(r).UserID, chi.URLParam(r, "changeOrderID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) rejectChangeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.ChangeOrders.Reject(r.Context(), caller(r).UserID, chi.URLParam(r, "changeOrderID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadRequest
	}
	return n, nil
}
