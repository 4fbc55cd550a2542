//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/google/uuid"
)

// AssignmentStatus is the lifecycle state of a persisted assignment.
type AssignmentStatus string

// Assignment statuses. New assignments are always created as AssignmentAssigned.
const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentWithdrawn  AssignmentStatus = "withdrawn"
)

// allowedTransitions maps a status to the statuses it may move to.
var allowedTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentAssigned:   {AssignmentInProgress, AssignmentWithdrawn},
	AssignmentInProgress: {AssignmentCompleted, AssignmentWithdrawn},
}

// ParseAssignmentStatus validates a status string.
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	switch status := AssignmentStatus(s); status {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted, AssignmentWithdrawn:
		return status, nil
	default:
		return "", fmt.Errorf("unknown assignment status %q", s)
	}
}

// Live reports whether the assignment still occupies a project slot.
func (s AssignmentStatus) Live() bool {
	return s != AssignmentWithdrawn
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// UpdateAssignmentRequest changes an assignment's status.
type UpdateAssignmentRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned in_progress completed withdrawn"`
}

// Validate validates the UpdateAssignmentRequest using the validator.
func (r *UpdateAssignmentRequest) Validate() error {
	return validate.Struct(r)
}

// AssignedWorker is one newly created assignment as reported to callers.
type AssignedWorker struct {
	UserID     uuid.UUID `json:"user_id"`
	MatchScore float64   `json:"match_score"`
}

// AssignResult reports the outcome of assigning one project.
type AssignResult struct {
	ProjectID   uuid.UUID        `json:"project_id"`
	Considered  int              `json:"considered"`
	Qualified   int              `json:"qualified"`
	Assigned    int              `json:"assigned"`
	Assignments []AssignedWorker `json:"assignments"`
}

// ProjectFailure records a project the auto-assign sweep could not process.
type ProjectFailure struct {
	ProjectID uuid.UUID `json:"project_id"`
	Error     string    `json:"error"`
}

// AutoAssignResult reports the outcome of a sweep across all open projects.
type AutoAssignResult struct {
	TotalAssigned int              `json:"total_assigned"`
	Projects      []AssignResult   `json:"projects"`
	Skipped       int              `json:"skipped"`
	Failed        []ProjectFailure `json:"failed"`
}
