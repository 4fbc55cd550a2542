// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/datagraph/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return "(none)"
	}
	joined := strings.Join(labels, ", ")
	if len(joined) > 40 {
		joined = joined[:37] + "..."
	}
	return joined
}

// PrintProject outputs the requirements and capacity of the project being matched.
func (p *Printer) PrintProject(project *types.ProjectProfile) {
	if project == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project:    %s\n", project.ID))
	sb.WriteString(fmt.Sprintf("Capacity:   %d/%d assigned, %d open\n",
		project.CurrentAssignedCount, project.MaxAssignments, project.RemainingSlots()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Skills:     %s\n", joinLabels(project.RequiredSkills)))
	sb.WriteString(fmt.Sprintf("Languages:  %s\n", joinLabels(project.RequiredLanguages)))

	experience := "(any)"
	if project.RequiredExperience.IsSet() {
		experience = string(project.RequiredExperience)
	}
	sb.WriteString(fmt.Sprintf("Experience: %s", experience))

	p.printBox("PROJECT REQUIREMENTS", sb.String())
}

// PrintRanking outputs the top scored candidates and whether each clears the threshold.
func (p *Printer) PrintRanking(ranked []types.ScoreBreakdown, threshold float64) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates scored: %d (threshold %.2f)\n\n", len(ranked), threshold))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := ranked[i]
		mark := "✗"
		if b.Qualified {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("#%d %s %s\n", i+1, mark, b.CandidateID))
		sb.WriteString(fmt.Sprintf("    Score: %.2f", b.Score))
		if b.SkillCredit != nil {
			sb.WriteString(fmt.Sprintf("  skills %.2f", *b.SkillCredit))
		}
		if b.LanguageCredit != nil {
			sb.WriteString(fmt.Sprintf("  langs %.2f", *b.LanguageCredit))
		}
		if b.ExperienceCredit != nil {
			sb.WriteString(fmt.Sprintf("  exp %.2f", *b.ExperienceCredit))
		}
		sb.WriteString("\n")
		if len(b.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Matched: %s\n", joinLabels(b.MatchedSkills)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(ranked)-maxItemsToShow))
	}

	p.printBox("CANDIDATE SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelection outputs the candidates the selector accepted.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSelection(resp *types.MatchResponse) {
	if resp == nil || len(resp.Selected) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CANDIDATES SELECTED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selected %d of %d qualified (%d considered, %d slots)\n\n",
		len(resp.Selected), resp.Qualified, resp.Considered, resp.RemainingSlots))

	for i, r := range resp.Selected {
		sb.WriteString(fmt.Sprintf("%d. %s  %.3f\n", i+1, r.CandidateID, r.Score))
	}

	p.printBox("SELECTED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAutoAssign outputs a summary of an auto-assign sweep.
func (p *Printer) PrintAutoAssign(result *types.AutoAssignResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Assigned: %d workers across %d projects\n", result.TotalAssigned, len(result.Projects)))
	sb.WriteString(fmt.Sprintf("Skipped:  %d\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("Failed:   %d\n", len(result.Failed)))

	if len(result.Failed) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Failed), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := result.Failed[i]
			sb.WriteString(fmt.Sprintf("⚠ %s\n", f.ProjectID))
			sb.WriteString(fmt.Sprintf("  %s\n", f.Error))
		}
		if len(result.Failed) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Failed)-maxItemsToShow))
		}
	}

	p.printBox("AUTO-ASSIGN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
