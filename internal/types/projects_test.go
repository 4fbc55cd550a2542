//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectRequest_Validation(t *testing.T) {
	valid := CreateProjectRequest{
		Title:               "Sentiment labels",
		ProjectRequirements: ProjectRequirements{RequiredSkills: []string{"Labeling"}},
		MaxAssignments:      3,
	}
	assert.NoError(t, valid.Validate())

	noTitle := valid
	noTitle.Title = ""
	assert.Error(t, noTitle.Validate())

	noCapacity := valid
	noCapacity.MaxAssignments = 0
	assert.Error(t, noCapacity.Validate())
}

func TestCreateProjectRequest_FlattenedJSON(t *testing.T) {
	var req CreateProjectRequest
	err := json.Unmarshal([]byte(`{
		"title": "Audio transcription",
		"required_languages": ["Swahili"],
		"required_experience": "beginner",
		"max_assignments": 4,
		"published": true,
		"active": true
	}`), &req)
	require.NoError(t, err)

	assert.Equal(t, []string{"Swahili"}, req.RequiredLanguages)
	assert.Equal(t, ExperienceBeginner, req.RequiredExperience)
	assert.True(t, req.Published)
	assert.NoError(t, req.Validate())
}

func TestUpdateProjectRequest_Validation(t *testing.T) {
	zero := 0
	assert.Error(t, (&UpdateProjectRequest{MaxAssignments: &zero}).Validate())

	empty := ""
	assert.Error(t, (&UpdateProjectRequest{Title: &empty}).Validate())

	five := 5
	assert.NoError(t, (&UpdateProjectRequest{MaxAssignments: &five}).Validate())
	assert.NoError(t, (&UpdateProjectRequest{}).Validate())
}
