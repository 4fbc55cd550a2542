package server

import (
	"net/http"

	"github.com/jonathan/datagraph/internal/db"
	"github.com/jonathan/datagraph/internal/types"
)

// ---------------------------------------------------------------------
// User Handlers
// ---------------------------------------------------------------------

// convertDBUserToTypesUser converts db.User to types.User
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:                  dbUser.ID,
		Name:                dbUser.Name,
		Email:               dbUser.Email,
		Skills:              dbUser.Skills,
		Languages:           dbUser.Languages,
		ExperienceLevel:     dbUser.Candidate().ExperienceLevel,
		OnboardingCompleted: dbUser.OnboardingCompleted,
		CreatedAt:           dbUser.CreatedAt,
		UpdatedAt:           dbUser.UpdatedAt,
	}
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, convertDBUserToTypesUser(user))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if user == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "user"})
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(user))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	var req types.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	user, err := s.store.UpdateUserProfile(r.Context(), id, db.UserProfile{
		Skills:              req.Skills,
		Languages:           req.Languages,
		ExperienceLevel:     req.ExperienceLevel,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if user == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "user"})
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(user))
}

func (s *Server) handleListUserAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if user == nil {
		s.errorFromErr(w, r, &ErrNotFound{Resource: "user"})
		return
	}

	assignments, err := s.store.ListAssignmentsByUser(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if assignments == nil {
		assignments = []db.Assignment{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id":     id,
		"assignments": assignments,
	})
}
