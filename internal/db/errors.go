package db

import "errors"

var (
	// ErrEmailTaken is returned when a user email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrProjectNotFound is returned by writes that target a missing project.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectClosed is returned when assignments are committed to a project that is no longer
	// both active and published.
	ErrProjectClosed = errors.New("project is not open for assignment")

	// ErrAssignmentConflict is returned when the project's live assignment count changed between
	// selection and commit, or the commit would exceed capacity. Nothing is written.
	ErrAssignmentConflict = errors.New("assignment conflict: project assignments changed concurrently")

	// ErrCapacityBelowAssigned is returned when max_assignments would drop below the live count.
	ErrCapacityBelowAssigned = errors.New("max assignments cannot be lower than current assignments")

	// ErrAssignmentNotFound is returned when an assignment id does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrInvalidTransition is returned for a disallowed assignment status change.
	ErrInvalidTransition = errors.New("invalid assignment status transition")
)
