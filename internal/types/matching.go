//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// ProjectRequirements is what a project asks of the workers assigned to it.
// Skill and language comparisons are case-insensitive.
type ProjectRequirements struct {
	RequiredSkills     []string        `json:"required_skills" yaml:"required_skills" validate:"dive,required"`
	RequiredLanguages  []string        `json:"required_languages" yaml:"required_languages" validate:"dive,required"`
	RequiredExperience ExperienceLevel `json:"required_experience,omitempty" yaml:"required_experience,omitempty"`
}

// HasRequirements reports whether at least one of the three categories is stated.
func (r ProjectRequirements) HasRequirements() bool {
	return len(r.RequiredSkills) > 0 || len(r.RequiredLanguages) > 0 || r.RequiredExperience.IsSet()
}

// ProjectProfile is a project's requirements plus its capacity.
type ProjectProfile struct {
	ID                   uuid.UUID `json:"id" yaml:"id"`
	ProjectRequirements  `yaml:",inline"`
	MaxAssignments       int `json:"max_assignments" yaml:"max_assignments" validate:"gte=1"`
	CurrentAssignedCount int `json:"current_assigned_count" yaml:"current_assigned_count" validate:"gte=0"`
}

// RemainingSlots is the number of further assignments the project accepts.
// It is never negative.
func (p ProjectProfile) RemainingSlots() int {
	remaining := p.MaxAssignments - p.CurrentAssignedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CandidateProfile describes a worker who may be assigned to a project.
type CandidateProfile struct {
	ID              uuid.UUID       `json:"id" yaml:"id" validate:"required"`
	Skills          []string        `json:"skills" yaml:"skills"`
	Languages       []string        `json:"languages" yaml:"languages"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty" yaml:"experience_level,omitempty"`
}

// MatchResult pairs a candidate with its compatibility score in [0, 1].
type MatchResult struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Score       float64   `json:"score"`
}

// ScoreBreakdown explains how a match score was reached.
type ScoreBreakdown struct {
	CandidateID      uuid.UUID `json:"candidate_id"`
	Score            float64   `json:"score"`
	Qualified        bool      `json:"qualified"`
	MatchedSkills    []string  `json:"matched_skills"`
	MatchedLanguages []string  `json:"matched_languages"`
	SkillCredit      *float64  `json:"skill_credit,omitempty"`
	LanguageCredit   *float64  `json:"language_credit,omitempty"`
	ExperienceCredit *float64  `json:"experience_credit,omitempty"`
	AppliedWeight    float64   `json:"applied_weight"`
	WeightedSubtotal float64   `json:"weighted_subtotal"`
}

// MatchRequest is the offline input to the selector: one project and a candidate pool.
type MatchRequest struct {
	Project    ProjectProfile     `json:"project" yaml:"project"`
	Candidates []CandidateProfile `json:"candidates" yaml:"candidates" validate:"dive"`
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	return validate.Struct(r)
}

// MatchResponse is the offline output of the selector.
// Explanations is only filled in when the caller asks for them.
type MatchResponse struct {
	ProjectID      uuid.UUID        `json:"project_id"`
	RemainingSlots int              `json:"remaining_slots"`
	Considered     int              `json:"considered"`
	Qualified      int              `json:"qualified"`
	Selected       []MatchResult    `json:"selected"`
	Explanations   []ScoreBreakdown `json:"explanations,omitempty"`
}
