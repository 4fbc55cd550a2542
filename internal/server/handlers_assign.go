package server

import (
	"net/http"

	"github.com/jonathan/datagraph/internal/types"
)

// ---------------------------------------------------------------------
// Assignment Runs
// ---------------------------------------------------------------------

// assignResponse is the body of POST /projects/{id}/assign.
type assignResponse struct {
	ProjectID   string                 `json:"project_id"`
	Assigned    int                    `json:"assigned"`
	Considered  int                    `json:"considered"`
	Qualified   int                    `json:"qualified"`
	Assignments []types.AssignedWorker `json:"assignments"`
}

func (s *Server) handleAssignProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	result, err := s.assigner.AssignProject(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, assignResponse{
		ProjectID:   result.ProjectID.String(),
		Assigned:    result.Assigned,
		Considered:  result.Considered,
		Qualified:   result.Qualified,
		Assignments: result.Assignments,
	})
}

func (s *Server) handleAutoAssign(w http.ResponseWriter, r *http.Request) {
	result, err := s.assigner.AutoAssign(r.Context())
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleProjectMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	preview, err := s.assigner.PreviewMatches(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if preview == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "project"})
		return
	}

	s.jsonResponse(w, http.StatusOK, preview)
}
