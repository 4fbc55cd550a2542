package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/datagraph/internal/types"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestPrintProject(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	project := &types.ProjectProfile{
		ID: uuid.MustParse("0b6f2a1e-7c1d-4f7e-9a3b-2f4c5d6e7f80"),
		ProjectRequirements: types.ProjectRequirements{
			RequiredSkills:     []string{"Go", "SQL"},
			RequiredExperience: types.ExperienceAdvanced,
		},
		MaxAssignments:       3,
		CurrentAssignedCount: 1,
	}

	p.PrintProject(project)
	output := buf.String()

	assert.Contains(t, output, "PROJECT REQUIREMENTS")
	assert.Contains(t, output, "1/3 assigned, 2 open")
	assert.Contains(t, output, "Go, SQL")
	assert.Contains(t, output, "Languages:  (none)")
	assert.Contains(t, output, "Advanced")
}

func TestPrintProject_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProject(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := make([]types.ScoreBreakdown, 0, 7)
	for i := 0; i < 7; i++ {
		ranked = append(ranked, types.ScoreBreakdown{
			CandidateID:   uuid.New(),
			Score:         1 - float64(i)*0.15,
			Qualified:     i < 5,
			MatchedSkills: []string{"go"},
			SkillCredit:   ptr(1 - float64(i)*0.15),
		})
	}

	p.PrintRanking(ranked, 0.3)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE SCORES")
	assert.Contains(t, output, "Candidates scored: 7 (threshold 0.30)")
	assert.Contains(t, output, "#1 ✓")
	assert.Contains(t, output, "Score: 1.00  skills 1.00")
	assert.Contains(t, output, "... and 2 more candidates")
	assert.NotContains(t, output, "#6")
}

func TestPrintRanking_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRanking(nil, 0.3)
	assert.Empty(t, buf.String())
}

func TestPrintSelection(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.MatchResponse{
		RemainingSlots: 2,
		Considered:     4,
		Qualified:      3,
		Selected: []types.MatchResult{
			{CandidateID: uuid.New(), Score: 0.9},
			{CandidateID: uuid.New(), Score: 0.45},
		},
	}

	p.PrintSelection(resp)
	output := buf.String()

	assert.Contains(t, output, "SELECTED CANDIDATES")
	assert.Contains(t, output, "Selected 2 of 3 qualified (4 considered, 2 slots)")
	assert.Contains(t, output, "0.900")
	assert.Contains(t, output, "0.450")
}

func TestPrintSelection_NoneSelected(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSelection(&types.MatchResponse{Selected: []types.MatchResult{}})
	assert.Contains(t, buf.String(), "NO CANDIDATES SELECTED")
}

func TestPrintAutoAssign(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	failedID := uuid.New()
	result := &types.AutoAssignResult{
		TotalAssigned: 4,
		Projects:      []types.AssignResult{{Assigned: 3}, {Assigned: 1}},
		Skipped:       1,
		Failed:        []types.ProjectFailure{{ProjectID: failedID, Error: "connection reset"}},
	}

	p.PrintAutoAssign(result)
	output := buf.String()

	assert.Contains(t, output, "AUTO-ASSIGN SUMMARY")
	assert.Contains(t, output, "Assigned: 4 workers across 2 projects")
	assert.Contains(t, output, "Skipped:  1")
	assert.Contains(t, output, failedID.String())
	assert.Contains(t, output, "connection reset")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	project := &types.ProjectProfile{
		ProjectRequirements: types.ProjectRequirements{
			RequiredSkills: []string{"distributed systems", "stream processing", "postgres internals"},
		},
		MaxAssignments: 1,
	}

	p.PrintProject(project)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "┘"))
	assert.Contains(t, output, "...")
}
