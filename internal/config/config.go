// Package config provides configuration loading and validation for the datagraph service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/datagraph/internal/matching"
	"github.com/jonathan/datagraph/internal/server/ratelimit"
)

// Default values applied by Defaults and MergeWithDefaults.
const (
	DefaultPort                  = 8080
	DefaultAutoAssignConcurrency = 4
	DefaultCommitRetries         = 3
)

// Config represents the service configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or environment variables.
type Config struct {
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	LogJSON     bool   `json:"log_json,omitempty" yaml:"log_json,omitempty"`
	Debug       bool   `json:"debug,omitempty" yaml:"debug,omitempty"`

	Matching   MatchingConfig   `json:"matching" yaml:"matching"`
	AutoAssign AutoAssignConfig `json:"auto_assign" yaml:"auto_assign"`
	RateLimit  RateLimitConfig  `json:"rate_limit" yaml:"rate_limit"`
}

// MatchingConfig overrides the scorer weights and the qualification threshold.
type MatchingConfig struct {
	Weights   matching.Weights `json:"weights" yaml:"weights"`
	Threshold *float64         `json:"threshold,omitempty" yaml:"threshold,omitempty"` // nil means the default; 0 qualifies everyone
	Epsilon   float64          `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
}

// AutoAssignConfig bounds the auto-assign sweep.
type AutoAssignConfig struct {
	Concurrency   int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`       // Projects processed in parallel
	CommitRetries int `json:"commit_retries,omitempty" yaml:"commit_retries,omitempty"` // Attempts after a commit conflict
}

// MatcherConfig converts the file settings into a matching.Config.
func (m MatchingConfig) MatcherConfig() matching.Config {
	return matching.Config{
		Weights:   m.Weights,
		Threshold: m.Threshold,
		Epsilon:   m.Epsilon,
	}
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	mc := matching.DefaultConfig()
	return Config{
		Port: DefaultPort,
		Matching: MatchingConfig{
			Weights:   mc.Weights,
			Threshold: mc.Threshold,
			Epsilon:   mc.Epsilon,
		},
		AutoAssign: AutoAssignConfig{
			Concurrency:   DefaultAutoAssignConcurrency,
			CommitRetries: DefaultCommitRetries,
		},
		RateLimit: RateLimitConfig{
			DefaultLimit:    ratelimit.DefaultLimit,
			DefaultWindow:   ratelimit.DefaultWindow,
			CleanupInterval: ratelimit.DefaultCleanupInterval,
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path, then defaults for
// anything unset, then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be within 0-65535, got %d", c.Port)
	}
	if c.AutoAssign.Concurrency < 0 {
		return fmt.Errorf("config error: 'auto_assign.concurrency' must be non-negative")
	}
	if c.AutoAssign.CommitRetries < 0 {
		return fmt.Errorf("config error: 'auto_assign.commit_retries' must be non-negative")
	}
	if c.RateLimit.DefaultLimit < 0 || c.RateLimit.DefaultWindow < 0 || c.RateLimit.CleanupInterval < 0 {
		return fmt.Errorf("config error: 'rate_limit' limit, window and cleanup interval must be non-negative")
	}
	if _, err := matching.New(c.Matching.MatcherConfig()); err != nil {
		return fmt.Errorf("config error: matching: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Weights merge as a unit: a file that sets one weight sets all three.
	if result.Matching.Weights == (matching.Weights{}) {
		result.Matching.Weights = defaults.Matching.Weights
	}
	if result.Matching.Threshold == nil {
		result.Matching.Threshold = defaults.Matching.Threshold
	}
	if result.Matching.Epsilon == 0 {
		result.Matching.Epsilon = defaults.Matching.Epsilon
	}

	if result.AutoAssign.Concurrency == 0 {
		result.AutoAssign.Concurrency = defaults.AutoAssign.Concurrency
	}
	if result.AutoAssign.CommitRetries == 0 {
		result.AutoAssign.CommitRetries = defaults.AutoAssign.CommitRetries
	}

	if result.RateLimit.DefaultLimit == 0 {
		result.RateLimit.DefaultLimit = defaults.RateLimit.DefaultLimit
	}
	if result.RateLimit.DefaultWindow == 0 {
		result.RateLimit.DefaultWindow = defaults.RateLimit.DefaultWindow
	}
	if result.RateLimit.CleanupInterval == 0 {
		result.RateLimit.CleanupInterval = defaults.RateLimit.CleanupInterval
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (environment overrides win for bools)

	return result
}
