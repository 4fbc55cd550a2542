//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseExperienceLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    ExperienceLevel
		wantErr bool
	}{
		{"Beginner", ExperienceBeginner, false},
		{"intermediate", ExperienceIntermediate, false},
		{"  ADVANCED ", ExperienceAdvanced, false},
		{"expert", ExperienceExpert, false},
		{"", ExperienceUnspecified, false},
		{"   ", ExperienceUnspecified, false},
		{"guru", ExperienceUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseExperienceLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExperienceLevel_Ordinal(t *testing.T) {
	for want, level := range ExperienceLevels() {
		got, ok := level.Ordinal()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := ExperienceUnspecified.Ordinal()
	assert.False(t, ok)
	_, ok = ExperienceLevel("Guru").Ordinal()
	assert.False(t, ok)
}

func TestExperienceLevel_Ptr(t *testing.T) {
	assert.Nil(t, ExperienceUnspecified.Ptr())
	require.NotNil(t, ExperienceExpert.Ptr())
	assert.Equal(t, "Expert", *ExperienceExpert.Ptr())
}

func TestExperienceLevel_UnmarshalJSON(t *testing.T) {
	var c CandidateProfile
	err := json.Unmarshal([]byte(`{"id":"7f1c0c44-8b9f-4a36-9a0e-3f7e0f8f1a11","experience_level":"advanced"}`), &c)
	require.NoError(t, err)
	assert.Equal(t, ExperienceAdvanced, c.ExperienceLevel)

	err = json.Unmarshal([]byte(`{"experience_level":null}`), &c)
	require.NoError(t, err)
	assert.Equal(t, ExperienceUnspecified, c.ExperienceLevel)

	err = json.Unmarshal([]byte(`{"experience_level":"wizard"}`), &c)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"experience_level":3}`), &c)
	assert.Error(t, err)
}

func TestExperienceLevel_UnmarshalYAML(t *testing.T) {
	var req ProjectRequirements
	err := yaml.Unmarshal([]byte("required_experience: EXPERT\n"), &req)
	require.NoError(t, err)
	assert.Equal(t, ExperienceExpert, req.RequiredExperience)

	err = yaml.Unmarshal([]byte("required_experience: \"\"\n"), &req)
	require.NoError(t, err)
	assert.Equal(t, ExperienceUnspecified, req.RequiredExperience)

	err = yaml.Unmarshal([]byte("required_experience: wizard\n"), &req)
	assert.ErrorContains(t, err, "unknown experience level")
}

func TestMatchRequest_YAML(t *testing.T) {
	doc := `
project:
  id: 0b8f6c1e-5a43-4d7e-9b1e-2d1f4c3a9e01
  required_skills: [Go, SQL]
  required_languages: [English]
  required_experience: advanced
  max_assignments: 2
  current_assigned_count: 1
candidates:
  - id: 7f1c0c44-8b9f-4a36-9a0e-3f7e0f8f1a11
    skills: [go]
    languages: [english]
    experience_level: EXPERT
  - id: 7f1c0c44-8b9f-4a36-9a0e-3f7e0f8f1a12
`
	var req MatchRequest
	require.NoError(t, yaml.Unmarshal([]byte(doc), &req))

	assert.Equal(t, "0b8f6c1e-5a43-4d7e-9b1e-2d1f4c3a9e01", req.Project.ID.String())
	assert.Equal(t, []string{"Go", "SQL"}, req.Project.RequiredSkills)
	assert.Equal(t, []string{"English"}, req.Project.RequiredLanguages)
	assert.Equal(t, ExperienceAdvanced, req.Project.RequiredExperience)
	assert.Equal(t, 2, req.Project.MaxAssignments)
	assert.Equal(t, 1, req.Project.CurrentAssignedCount)

	require.Len(t, req.Candidates, 2)
	assert.Equal(t, ExperienceExpert, req.Candidates[0].ExperienceLevel)
	assert.Equal(t, []string{"go"}, req.Candidates[0].Skills)
	assert.Equal(t, ExperienceUnspecified, req.Candidates[1].ExperienceLevel)
	assert.Nil(t, req.Candidates[1].Skills)
}
