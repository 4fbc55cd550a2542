package assignment

import "errors"

var (
	// ErrProjectUnavailable is returned when the project does not exist or is not both
	// active and published.
	ErrProjectUnavailable = errors.New("project not found or not available for assignment")

	// ErrProjectAtCapacity is returned when the project has no remaining slots.
	ErrProjectAtCapacity = errors.New("project has reached maximum assignments")
)
