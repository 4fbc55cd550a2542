// Package matching scores workers against annotation projects and selects who gets assigned.
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/datagraph/internal/types"
)

// Default weights for scoring factors
const (
	DefaultSkillWeight      = 0.4
	DefaultLanguageWeight   = 0.3
	DefaultExperienceWeight = 0.3
)

// Weights holds the relative importance of each scoring factor.
// A factor only counts toward the normalising total when the project states that requirement.
type Weights struct {
	Skills     float64 `json:"skills" yaml:"skills"`
	Languages  float64 `json:"languages" yaml:"languages"`
	Experience float64 `json:"experience" yaml:"experience"`
}

// DefaultWeights returns the 0.4 / 0.3 / 0.3 weighting.
func DefaultWeights() Weights {
	return Weights{
		Skills:     DefaultSkillWeight,
		Languages:  DefaultLanguageWeight,
		Experience: DefaultExperienceWeight,
	}
}

// Validate rejects negative, NaN or infinite weights.
func (w Weights) Validate() error {
	factors := []struct {
		name  string
		value float64
	}{
		{"skills", w.Skills},
		{"languages", w.Languages},
		{"experience", w.Experience},
	}
	for _, f := range factors {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s weight must be a non-negative number, got %v", ErrInvalidWeights, f.name, f.value)
		}
	}
	if w.Skills+w.Languages+w.Experience == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrInvalidWeights)
	}
	return nil
}

// factorScores carries the intermediate values of one score computation.
type factorScores struct {
	weighted         float64
	applied          float64
	skillCredit      *float64
	languageCredit   *float64
	experienceCredit *float64
	matchedSkills    []string
	matchedLanguages []string
}

// score computes the weighted factors for one candidate against one project.
func (w Weights) score(candidate *types.CandidateProfile, req *types.ProjectRequirements) factorScores {
	var fs factorScores

	if required := normalizeSet(req.RequiredSkills); len(required) > 0 && w.Skills > 0 {
		fraction, matched := overlapFraction(required, normalizeSet(candidate.Skills))
		fs.weighted += fraction * w.Skills
		fs.applied += w.Skills
		fs.skillCredit = &fraction
		fs.matchedSkills = matched
	}

	if required := normalizeSet(req.RequiredLanguages); len(required) > 0 && w.Languages > 0 {
		fraction, matched := overlapFraction(required, normalizeSet(candidate.Languages))
		fs.weighted += fraction * w.Languages
		fs.applied += w.Languages
		fs.languageCredit = &fraction
		fs.matchedLanguages = matched
	}

	if credit, ok := experienceCredit(candidate.ExperienceLevel, req.RequiredExperience); ok && w.Experience > 0 {
		fs.weighted += credit * w.Experience
		fs.applied += w.Experience
		fs.experienceCredit = &credit
	}

	return fs
}

// total returns weighted / applied, or 0 when no factor applied.
func (fs factorScores) total() float64 {
	if fs.applied <= 0 {
		return 0
	}
	return clamp01(fs.weighted / fs.applied)
}

// experienceCredit returns the fraction of the experience bar the candidate meets.
// ok is false when either level is absent, in which case the factor does not apply.
func experienceCredit(candidate, required types.ExperienceLevel) (float64, bool) {
	requiredOrdinal, reqOK := required.Ordinal()
	candidateOrdinal, candOK := candidate.Ordinal()
	if !reqOK || !candOK {
		return 0, false
	}
	// Meeting or exceeding the bar is full credit; a Beginner requirement always lands here.
	if candidateOrdinal >= requiredOrdinal {
		return 1, true
	}
	return float64(candidateOrdinal) / float64(requiredOrdinal), true
}

// overlapFraction returns the share of required entries present in have, and the matched entries
// in the order they were required.
func overlapFraction(required []string, have []string) (float64, []string) {
	haveSet := make(map[string]bool, len(have))
	for _, h := range have {
		haveSet[h] = true
	}

	matched := make([]string, 0, len(required))
	for _, r := range required {
		if haveSet[r] {
			matched = append(matched, r)
		}
	}
	return float64(len(matched)) / float64(len(required)), matched
}

// normalizeSet lower-cases and trims entries, dropping blanks and duplicates while keeping first-seen order.
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := strings.ToLower(strings.TrimSpace(v))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
