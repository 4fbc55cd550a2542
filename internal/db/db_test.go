package db

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/datagraph/internal/types"
)

func strPtr(s string) *string { return &s }

func TestUserCandidate(t *testing.T) {
	id := uuid.New()
	u := User{
		ID:              id,
		Skills:          []string{"Go"},
		Languages:       []string{"English"},
		ExperienceLevel: strPtr("advanced"),
	}

	c := u.Candidate()
	assert.Equal(t, id, c.ID)
	assert.Equal(t, []string{"Go"}, c.Skills)
	assert.Equal(t, types.ExperienceAdvanced, c.ExperienceLevel)
}

func TestUserCandidate_UnknownLevelIsAbsent(t *testing.T) {
	u := User{ID: uuid.New(), ExperienceLevel: strPtr("guru")}
	assert.Equal(t, types.ExperienceUnspecified, u.Candidate().ExperienceLevel)

	u.ExperienceLevel = nil
	assert.Equal(t, types.ExperienceUnspecified, u.Candidate().ExperienceLevel)
}

func TestProjectProfile(t *testing.T) {
	p := Project{
		ID:                 uuid.New(),
		RequiredSkills:     []string{"labeling"},
		RequiredLanguages:  []string{"French"},
		RequiredExperience: strPtr("Expert"),
		MaxAssignments:     5,
		AssignedCount:      2,
	}

	profile := p.Profile()
	assert.Equal(t, p.ID, profile.ID)
	assert.Equal(t, []string{"labeling"}, profile.RequiredSkills)
	assert.Equal(t, types.ExperienceExpert, profile.RequiredExperience)
	assert.Equal(t, 3, profile.RemainingSlots())
}

func TestProjectOpen(t *testing.T) {
	tests := []struct {
		name      string
		active    bool
		published bool
		want      bool
	}{
		{"active and published", true, true, true},
		{"draft", true, false, false},
		{"paused", false, true, false},
		{"neither", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project{IsActive: tt.active, IsPublished: tt.published}
			assert.Equal(t, tt.want, p.Open())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.Join(errors.New("insert"), &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestNonNilStrings(t *testing.T) {
	require.NotNil(t, nonNilStrings(nil))
	assert.Empty(t, nonNilStrings(nil))
	assert.Equal(t, []string{"a"}, nonNilStrings([]string{"a"}))
}
