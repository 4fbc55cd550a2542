package matching

import "errors"

var (
	// ErrInvalidCapacity is returned when a project's capacity fields are malformed.
	ErrInvalidCapacity = errors.New("invalid project capacity")

	// ErrInvalidCandidate is returned when a candidate profile is missing its id or repeats one.
	ErrInvalidCandidate = errors.New("invalid candidate profile")

	// ErrInvalidWeights is returned by Weights.Validate.
	ErrInvalidWeights = errors.New("invalid matching weights")

	// ErrInvalidThreshold is returned when the qualification threshold is outside [0, 1].
	ErrInvalidThreshold = errors.New("invalid qualification threshold")
)
