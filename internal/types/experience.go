// Package types provides type definitions for structured data used throughout the datagraph service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExperienceLevel is the ordinal skill level declared by a worker or required by a project.
// The zero value means the level is absent.
type ExperienceLevel string

// Experience levels in ascending order.
const (
	ExperienceUnspecified  ExperienceLevel = ""
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
	ExperienceExpert       ExperienceLevel = "Expert"
)

// experienceLevels lists the levels by ordinal.
var experienceLevels = []ExperienceLevel{
	ExperienceBeginner,
	ExperienceIntermediate,
	ExperienceAdvanced,
	ExperienceExpert,
}

// ExperienceLevels returns all known levels, lowest first.
func ExperienceLevels() []ExperienceLevel {
	out := make([]ExperienceLevel, len(experienceLevels))
	copy(out, experienceLevels)
	return out
}

// ParseExperienceLevel resolves a level name case-insensitively.
// An empty or blank string yields ExperienceUnspecified.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ExperienceUnspecified, nil
	}
	for _, level := range experienceLevels {
		if strings.EqualFold(trimmed, string(level)) {
			return level, nil
		}
	}
	return ExperienceUnspecified, fmt.Errorf("unknown experience level %q", s)
}

// Ordinal returns the position of the level on the Beginner..Expert scale.
// ok is false when the level is absent or unknown.
func (l ExperienceLevel) Ordinal() (ordinal int, ok bool) {
	for i, level := range experienceLevels {
		if l == level {
			return i, true
		}
	}
	return 0, false
}

// IsSet reports whether a known level is present.
func (l ExperienceLevel) IsSet() bool {
	_, ok := l.Ordinal()
	return ok
}

// Ptr returns nil for an absent level, which is how nullable columns store it.
func (l ExperienceLevel) Ptr() *string {
	if !l.IsSet() {
		return nil
	}
	s := string(l)
	return &s
}

// UnmarshalJSON accepts any casing of a known level, or null / "".
func (l *ExperienceLevel) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = ExperienceUnspecified
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("experience level must be a string: %w", err)
	}
	parsed, err := ParseExperienceLevel(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML match requests.
func (l *ExperienceLevel) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("experience level must be a string: %w", err)
	}
	parsed, err := ParseExperienceLevel(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
