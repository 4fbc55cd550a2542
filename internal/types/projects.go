//nolint:revive // types is a standard Go package name pattern
package types

// CreateProjectRequest represents the request to create an annotation project.
// New projects start unpublished unless Published is set.
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	ProjectRequirements
	MaxAssignments int  `json:"max_assignments" validate:"required,gte=1"`
	Published      bool `json:"published"`
	Active         bool `json:"active"`
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	Title              *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	RequiredSkills     []string         `json:"required_skills,omitempty" validate:"omitempty,dive,required"`
	RequiredLanguages  []string         `json:"required_languages,omitempty" validate:"omitempty,dive,required"`
	RequiredExperience *ExperienceLevel `json:"required_experience,omitempty"`
	MaxAssignments     *int             `json:"max_assignments,omitempty" validate:"omitempty,gte=1"`
	Published          *bool            `json:"published,omitempty"`
	Active             *bool            `json:"active,omitempty"`
}

// Validate validates the CreateProjectRequest using the validator.
func (r *CreateProjectRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateProjectRequest using the validator.
func (r *UpdateProjectRequest) Validate() error {
	return validate.Struct(r)
}
