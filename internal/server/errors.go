package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/datagraph/internal/assignment"
	"github.com/jonathan/datagraph/internal/db"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed resource does not exist.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// validationError converts a validator error into an ErrValidation for the first failing field.
func validationError(err error) *ErrValidation {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var notFound *ErrNotFound
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound),
		errors.Is(err, assignment.ErrProjectUnavailable),
		errors.Is(err, db.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, assignment.ErrProjectAtCapacity),
		errors.Is(err, db.ErrAssignmentConflict),
		errors.Is(err, db.ErrEmailTaken),
		errors.Is(err, db.ErrCapacityBelowAssigned),
		errors.Is(err, db.ErrInvalidTransition):
		return http.StatusConflict
	default:
		// Includes matching.ErrInvalidCapacity and matching.ErrInvalidCandidate.
		return http.StatusInternalServerError
	}
}
