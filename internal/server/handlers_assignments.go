package server

import (
	"net/http"

	"github.com/jonathan/datagraph/internal/types"
)

// ---------------------------------------------------------------------
// Assignment Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assignment")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	a, err := s.store.GetAssignment(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if a == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "assignment"})
		return
	}

	s.jsonResponse(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assignment")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	var req types.UpdateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}
	next, err := types.ParseAssignmentStatus(req.Status)
	if err != nil {
		s.errorFromErr(w, r, &ErrValidation{Field: "status", Message: err.Error()})
		return
	}

	a, err := s.store.UpdateAssignmentStatus(r.Context(), id, next)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, a)
}
