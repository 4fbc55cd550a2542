//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest represents the request to register a worker.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest replaces the worker's declared matching profile.
type UpdateProfileRequest struct {
	Skills              []string        `json:"skills" validate:"max=100,dive,required,max=100"`
	Languages           []string        `json:"languages" validate:"max=50,dive,required,max=100"`
	ExperienceLevel     ExperienceLevel `json:"experience_level,omitempty"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
}

// User represents a worker profile for API responses (avoids import cycle with db package).
type User struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Skills              []string        `json:"skills"`
	Languages           []string        `json:"languages"`
	ExperienceLevel     ExperienceLevel `json:"experience_level,omitempty"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}
