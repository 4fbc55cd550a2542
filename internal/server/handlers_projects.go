package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/datagraph/internal/db"
	"github.com/jonathan/datagraph/internal/types"
)

// ---------------------------------------------------------------------
// Project Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	project, err := s.store.CreateProject(r.Context(), db.ProjectInput{
		Title:              req.Title,
		Description:        req.Description,
		RequiredSkills:     req.RequiredSkills,
		RequiredLanguages:  req.RequiredLanguages,
		RequiredExperience: req.RequiredExperience,
		MaxAssignments:     req.MaxAssignments,
		IsActive:           req.Active,
		IsPublished:        req.Published,
	})
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := db.ProjectFilters{}

	if v := q.Get("open"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			s.errorFromErr(w, r, &ErrValidation{Field: "open", Message: "must be a boolean"})
			return
		}
		filters.OpenOnly = open
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &filters.Limit}, {"offset", &filters.Offset}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorFromErr(w, r, &ErrValidation{Field: p.name, Message: "must be a non-negative integer"})
			return
		}
		*p.dst = n
	}

	projects, err := s.store.ListProjects(r.Context(), filters)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if projects == nil {
		projects = []db.Project{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"projects": projects,
		"count":    len(projects),
	})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if project == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "project"})
		return
	}

	s.jsonResponse(w, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	var req types.UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	project, err := s.store.UpdateProject(r.Context(), id, db.ProjectUpdate{
		Title:              req.Title,
		Description:        req.Description,
		RequiredSkills:     req.RequiredSkills,
		RequiredLanguages:  req.RequiredLanguages,
		RequiredExperience: req.RequiredExperience,
		MaxAssignments:     req.MaxAssignments,
		IsActive:           req.Active,
		IsPublished:        req.Published,
	})
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if project == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "project"})
		return
	}

	s.jsonResponse(w, http.StatusOK, project)
}

func (s *Server) handleListProjectAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if project == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "project"})
		return
	}

	assignments, err := s.store.ListAssignmentsByProject(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if assignments == nil {
		assignments = []db.Assignment{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"project_id":     id,
		"assigned_count": project.AssignedCount,
		"assignments":    assignments,
	})
}
