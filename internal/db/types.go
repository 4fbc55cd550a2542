package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/datagraph/internal/types"
)

// User represents a worker record
type User struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Skills              []string  `json:"skills"`
	Languages           []string  `json:"languages"`
	ExperienceLevel     *string   `json:"experience_level,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UserProfile is the matching-relevant part of a user, written by UpdateUserProfile.
type UserProfile struct {
	Skills              []string
	Languages           []string
	ExperienceLevel     types.ExperienceLevel
	OnboardingCompleted bool
}

// Candidate converts the stored user into a matching candidate.
// An unrecognised stored level is treated as absent.
func (u *User) Candidate() types.CandidateProfile {
	return types.CandidateProfile{
		ID:              u.ID,
		Skills:          u.Skills,
		Languages:       u.Languages,
		ExperienceLevel: parseLevel(u.ExperienceLevel),
	}
}

// Project represents an annotation project record.
// AssignedCount is the number of live (non-withdrawn) assignments, computed on read.
type Project struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RequiredSkills     []string  `json:"required_skills"`
	RequiredLanguages  []string  `json:"required_languages"`
	RequiredExperience *string   `json:"required_experience,omitempty"`
	MaxAssignments     int       `json:"max_assignments"`
	IsActive           bool      `json:"is_active"`
	IsPublished        bool      `json:"is_published"`
	AssignedCount      int       `json:"assigned_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Open reports whether the project accepts new assignments.
func (p *Project) Open() bool {
	return p.IsActive && p.IsPublished
}

// Profile converts the stored project into the selector's input.
func (p *Project) Profile() types.ProjectProfile {
	return types.ProjectProfile{
		ID: p.ID,
		ProjectRequirements: types.ProjectRequirements{
			RequiredSkills:     p.RequiredSkills,
			RequiredLanguages:  p.RequiredLanguages,
			RequiredExperience: parseLevel(p.RequiredExperience),
		},
		MaxAssignments:       p.MaxAssignments,
		CurrentAssignedCount: p.AssignedCount,
	}
}

// ProjectInput holds the writable fields of a new project.
type ProjectInput struct {
	Title              string
	Description        string
	RequiredSkills     []string
	RequiredLanguages  []string
	RequiredExperience types.ExperienceLevel
	MaxAssignments     int
	IsActive           bool
	IsPublished        bool
}

// ProjectUpdate is a partial project update; nil fields are left unchanged.
type ProjectUpdate struct {
	Title              *string
	Description        *string
	RequiredSkills     []string
	RequiredLanguages  []string
	RequiredExperience *types.ExperienceLevel
	MaxAssignments     *int
	IsActive           *bool
	IsPublished        *bool
}

// ProjectFilters narrows ListProjects.
type ProjectFilters struct {
	OpenOnly bool
	Limit    int
	Offset   int
}

// Assignment represents a worker's assignment to a project
type Assignment struct {
	ID         uuid.UUID              `json:"id"`
	ProjectID  uuid.UUID              `json:"project_id"`
	UserID     uuid.UUID              `json:"user_id"`
	MatchScore float64                `json:"match_score"`
	Status     types.AssignmentStatus `json:"status"`
	AssignedAt time.Time              `json:"assigned_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// NewAssignment is one row to insert by CommitAssignments.
type NewAssignment struct {
	UserID     uuid.UUID
	MatchScore float64
}

func parseLevel(s *string) types.ExperienceLevel {
	if s == nil {
		return types.ExperienceUnspecified
	}
	level, err := types.ParseExperienceLevel(*s)
	if err != nil {
		return types.ExperienceUnspecified
	}
	return level
}
