package transport

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/budgetline/internal/domain/project"
)

type createProjectBody struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	BaselineBudget  float64 `json:"baseline_budget"`
	OverheadPercent float64 `json:"overhead_percent"`
	Currency        string  `json:"currency"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date"`
}

type updateProjectBody struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	BaselineBudget  *float64 `json:"baseline_budget"`
	OverheadPercent *float64 `json:"overhead_percent"`
	Currency        *string  `json:"currency"`
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	ClearEndDate    bool     `json:"clear_end_date"`
}

type emailBody struct {
	Email string `json:"email"`
}

// ProjectList groups the projects visible to a user.
type ProjectList struct {
	Owned   []project.Project `json:"owned"`
	Shared  []project.Project `json:"shared"`
	Invites []project.Project `json:"invites"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	owned, err := s.svc.Projects.ListOwned(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	shared, err := s.svc.Projects.ListShared(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list := ProjectList{Owned: nonNil(owned), Shared: nonNil(shared), Invites: []project.Project{}}
	if id.Email != "" {
		invites, err := s.svc.Projects.ListInvites(r.Context(), id.Email)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		list.Invites = nonNil(invites)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.Create(r.Context(), caller(r).UserID, project.CreateRequest{
		Name:            body.Name,
		Description:     body.Description,
		BaselineBudget:  body.BaselineBudget,
		OverheadPercent: body.OverheadPercent,
		Currency:        body.Currency,
		StartDate:       body.StartDate,
		EndDate:         body.EndDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	proj, err := s.svc.Projects.Get(r.Context(), id.UserID, chi.URLParam(r, "projectID"), id.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.Update(r.Context(), caller(r).UserID, project.UpdateRequest{
		ID:              chi.URLParam(r, "projectID"),
		Name:            body.Name,
		Description:     body.Description,
		BaselineBudget:  body.BaselineBudget,
		OverheadPercent: body.OverheadPercent,
		Currency:        body.Currency,
		StartDate:       body.StartDate,
		EndDate:         body.EndDate,
		ClearEndDate:    body.ClearEndDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lockBaseline(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.LockBaseline(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) archiveProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.Archive(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) inviteCollaborator(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.Invite(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"), body.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) removeInvite(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		s.fail(w, r, errBadRequest)
		return
	}
	proj, err := s.svc.Projects.RemoveInvite(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"), email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) acceptInvite(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	proj, err := s.svc.Projects.AcceptInvite(r.Context(), id.UserID, chi.URLParam(r, "projectID"), id.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) declineInvite(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.DeclineInvite(r.Context(), chi.URLParam(r, "projectID"), caller(r).Email); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeCollaborator(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.RemoveCollaborator(r.Context(), caller(r).UserID, chi.URLParam(r, "projectID"), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
