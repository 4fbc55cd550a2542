package matching

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/datagraph/internal/types"
)

const (
	// DefaultQualificationThreshold is the score below which a candidate is never assigned.
	DefaultQualificationThreshold = 0.3

	// DefaultThresholdEpsilon absorbs floating-point error when a score lands exactly on the threshold.
	DefaultThresholdEpsilon = 1e-9
)

// Config tunes a Matcher. Zero weights, a nil Threshold and a zero Epsilon fall back to the
// defaults; a Threshold pointing at 0 qualifies every candidate.
type Config struct {
	Weights   Weights
	Threshold *float64
	Epsilon   float64
}

// DefaultConfig returns the standard weights, threshold and epsilon.
func DefaultConfig() Config {
	return Config{
		Weights:   DefaultWeights(),
		Threshold: ThresholdOf(DefaultQualificationThreshold),
		Epsilon:   DefaultThresholdEpsilon,
	}
}

// ThresholdOf returns a pointer to v for Config.Threshold.
func ThresholdOf(v float64) *float64 {
	return &v
}

// Matcher scores candidates and selects assignments. It holds no mutable state and is safe for
// concurrent use.
type Matcher struct {
	weights   Weights
	threshold float64
	epsilon   float64
}

// Selection is the full outcome of one selector run.
type Selection struct {
	Considered int                 `json:"considered"`
	Qualified  int                 `json:"qualified"`
	Remaining  int                 `json:"remaining_slots"`
	Selected   []types.MatchResult `json:"selected"`
}

var defaultMatcher = &Matcher{
	weights:   DefaultWeights(),
	threshold: DefaultQualificationThreshold,
	epsilon:   DefaultThresholdEpsilon,
}

// Default returns a Matcher using DefaultConfig.
func Default() *Matcher {
	return defaultMatcher
}

// New builds a Matcher from cfg, filling unset fields from DefaultConfig.
func New(cfg Config) (*Matcher, error) {
	defaults := DefaultConfig()
	if cfg.Weights == (Weights{}) {
		cfg.Weights = defaults.Weights
	}
	threshold := *defaults.Threshold
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = defaults.Epsilon
	}

	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: must be within [0, 1], got %v", ErrInvalidThreshold, threshold)
	}
	if math.IsNaN(cfg.Epsilon) || cfg.Epsilon < 0 || cfg.Epsilon > 0.01 {
		return nil, fmt.Errorf("%w: epsilon must be within [0, 0.01], got %v", ErrInvalidThreshold, cfg.Epsilon)
	}

	return &Matcher{
		weights:   cfg.Weights,
		threshold: threshold,
		epsilon:   cfg.Epsilon,
	}, nil
}

// Weights returns the weights the matcher scores with.
func (m *Matcher) Weights() Weights {
	return m.weights
}

// Threshold returns the qualification threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// ComputeMatchScore scores a candidate against a project with the default weights.
func ComputeMatchScore(candidate *types.CandidateProfile, project *types.ProjectRequirements) float64 {
	return defaultMatcher.Score(candidate, project)
}

// SelectAssignments runs the selector with the default configuration.
func SelectAssignments(project *types.ProjectProfile, candidates []types.CandidateProfile) ([]types.MatchResult, error) {
	return defaultMatcher.Select(project, candidates)
}

// Score returns the candidate's compatibility with the project in [0, 1].
// A project with no stated requirements scores 0 for everyone.
func (m *Matcher) Score(candidate *types.CandidateProfile, project *types.ProjectRequirements) float64 {
	return m.weights.score(candidate, project).total()
}

// Qualifies reports whether score clears the qualification threshold.
func (m *Matcher) Qualifies(score float64) bool {
	return score >= m.threshold-m.epsilon
}

// Explain scores a candidate and reports the contribution of each factor.
func (m *Matcher) Explain(candidate *types.CandidateProfile, project *types.ProjectRequirements) types.ScoreBreakdown {
	fs := m.weights.score(candidate, project)
	score := fs.total()
	return types.ScoreBreakdown{
		CandidateID:      candidate.ID,
		Score:            score,
		Qualified:        m.Qualifies(score),
		MatchedSkills:    nonNil(fs.matchedSkills),
		MatchedLanguages: nonNil(fs.matchedLanguages),
		SkillCredit:      fs.skillCredit,
		LanguageCredit:   fs.languageCredit,
		ExperienceCredit: fs.experienceCredit,
		AppliedWeight:    fs.applied,
		WeightedSubtotal: fs.weighted,
	}
}

// Select returns the qualifying candidates with the highest scores, at most the project's remaining slots.
func (m *Matcher) Select(project *types.ProjectProfile, candidates []types.CandidateProfile) ([]types.MatchResult, error) {
	sel, err := m.SelectDetailed(project, candidates)
	if err != nil {
		return nil, err
	}
	return sel.Selected, nil
}

// SelectDetailed is Select with counts of how many candidates were scored and how many qualified.
//
// Capacity is validated first; a project with no remaining slots returns an empty selection
// without looking at the candidates. Candidates are then validated as a whole before any scoring.
func (m *Matcher) SelectDetailed(project *types.ProjectProfile, candidates []types.CandidateProfile) (*Selection, error) {
	if err := validateCapacity(project); err != nil {
		return nil, err
	}

	remaining := project.RemainingSlots()
	if remaining == 0 {
		return &Selection{Selected: []types.MatchResult{}}, nil
	}

	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}

	qualified := make([]types.MatchResult, 0, len(candidates))
	for i := range candidates {
		score := m.Score(&candidates[i], &project.ProjectRequirements)
		if !m.Qualifies(score) {
			continue
		}
		qualified = append(qualified, types.MatchResult{CandidateID: candidates[i].ID, Score: score})
	}

	sortResults(qualified)

	selected := qualified
	if len(selected) > remaining {
		selected = selected[:remaining]
	}

	return &Selection{
		Considered: len(candidates),
		Qualified:  len(qualified),
		Remaining:  remaining,
		Selected:   selected,
	}, nil
}

// Rank explains every candidate, sorted the same way the selector orders them.
// Unlike Select it keeps unqualified candidates and ignores capacity.
func (m *Matcher) Rank(project *types.ProjectRequirements, candidates []types.CandidateProfile) ([]types.ScoreBreakdown, error) {
	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}

	ranked := make([]types.ScoreBreakdown, 0, len(candidates))
	for i := range candidates {
		ranked = append(ranked, m.Explain(&candidates[i], project))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i].Score, ranked[i].CandidateID, ranked[j].Score, ranked[j].CandidateID)
	})
	return ranked, nil
}

func validateCapacity(project *types.ProjectProfile) error {
	if project == nil {
		return fmt.Errorf("%w: project is nil", ErrInvalidCapacity)
	}
	if project.MaxAssignments < 1 {
		return fmt.Errorf("%w: max assignments must be positive, got %d", ErrInvalidCapacity, project.MaxAssignments)
	}
	if project.CurrentAssignedCount < 0 {
		return fmt.Errorf("%w: current assigned count must be non-negative, got %d", ErrInvalidCapacity, project.CurrentAssignedCount)
	}
	return nil
}

func validateCandidates(candidates []types.CandidateProfile) error {
	seen := make(map[uuid.UUID]bool, len(candidates))
	for i, c := range candidates {
		if c.ID == uuid.Nil {
			return fmt.Errorf("%w: candidate at index %d has no id", ErrInvalidCandidate, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: candidate %s appears more than once", ErrInvalidCandidate, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// sortResults orders by descending score, then ascending candidate id.
func sortResults(results []types.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		return less(results[i].Score, results[i].CandidateID, results[j].Score, results[j].CandidateID)
	})
}

func less(scoreA float64, idA uuid.UUID, scoreB float64, idB uuid.UUID) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return bytes.Compare(idA[:], idB[:]) < 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
