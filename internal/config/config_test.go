package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/datagraph/internal/matching"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"port": 9090,
		"database_url": "postgres://localhost/datagraph",
		"log_json": true,
		"matching": {"weights": {"skills": 0.5, "languages": 0.25, "experience": 0.25}, "threshold": 0.4},
		"auto_assign": {"concurrency": 8}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/datagraph", cfg.DatabaseURL)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, matching.Weights{Skills: 0.5, Languages: 0.25, Experience: 0.25}, cfg.Matching.Weights)
	require.NotNil(t, cfg.Matching.Threshold)
	assert.Equal(t, 0.4, *cfg.Matching.Threshold)
	assert.Equal(t, 8, cfg.AutoAssign.Concurrency)
	assert.Zero(t, cfg.AutoAssign.CommitRetries)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, `
port: 7070
debug: true
matching:
  weights:
    skills: 1
    languages: 0
    experience: 0
auto_assign:
  concurrency: 2
  commit_retries: 5
`)
			cfg, err := LoadConfig(path)
			require.NoError(t, err)

			assert.Equal(t, 7070, cfg.Port)
			assert.True(t, cfg.Debug)
			assert.Equal(t, matching.Weights{Skills: 1}, cfg.Matching.Weights)
			assert.Equal(t, 2, cfg.AutoAssign.Concurrency)
			assert.Equal(t, 5, cfg.AutoAssign.CommitRetries)
		})
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "port: [unterminated")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadConfig_RelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rel.json"), []byte(`{"port": 1234}`), 0644))
	t.Chdir(dir)

	cfg, err := LoadConfig("rel.json")
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port too large", func(c *Config) { c.Port = 70000 }, "'port'"},
		{"negative concurrency", func(c *Config) { c.AutoAssign.Concurrency = -1 }, "concurrency"},
		{"negative retries", func(c *Config) { c.AutoAssign.CommitRetries = -2 }, "commit_retries"},
		{"negative weight", func(c *Config) { c.Matching.Weights.Skills = -0.1 }, "matching"},
		{"threshold above one", func(c *Config) { c.Matching.Threshold = matching.ThresholdOf(1.5) }, "matching"},
		{"zero threshold", func(c *Config) { c.Matching.Threshold = matching.ThresholdOf(0) }, ""},
		{"negative rate limit", func(c *Config) { c.RateLimit.DefaultLimit = -1 }, "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://file",
		AutoAssign:  AutoAssignConfig{Concurrency: 16},
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, "postgres://file", merged.DatabaseURL)
	assert.Equal(t, matching.DefaultWeights(), merged.Matching.Weights)
	require.NotNil(t, merged.Matching.Threshold)
	assert.Equal(t, matching.DefaultQualificationThreshold, *merged.Matching.Threshold)
	assert.Equal(t, matching.DefaultThresholdEpsilon, merged.Matching.Epsilon)
	assert.Equal(t, 16, merged.AutoAssign.Concurrency)
	assert.Equal(t, DefaultCommitRetries, merged.AutoAssign.CommitRetries)

	// original untouched
	assert.Zero(t, cfg.Port)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("DEBUG", "1")
	t.Setenv("AUTO_ASSIGN_CONCURRENCY", "2")
	t.Setenv("AUTO_ASSIGN_COMMIT_RETRIES", "")

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.LogJSON)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2, cfg.AutoAssign.Concurrency)
	assert.Equal(t, DefaultCommitRetries, cfg.AutoAssign.CommitRetries)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "eighty"},
		{"AUTO_ASSIGN_CONCURRENCY", "1.5"},
		{"LOG_JSON", "maybe"},
		{"RATE_LIMIT_ENABLED", "sometimes"},
		{"RATE_LIMIT_DEFAULT_WINDOW", "ten"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := Defaults()
			err := cfg.ApplyEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid "+tt.key)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	t.Run("no file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, DefaultAutoAssignConcurrency, cfg.AutoAssign.Concurrency)
	})

	t.Run("file then env", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"port": 9000, "database_url": "postgres://file"}`)
		t.Setenv("DATABASE_URL", "postgres://env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	})

	t.Run("invalid file values", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"matching": {"threshold": 2}}`)
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestApplyEnv_RateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv())

	assert.True(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 50, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.CleanupInterval)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateLimit.Whitelist)
	assert.Empty(t, cfg.RateLimit.Blacklist)

	t.Setenv("RATE_LIMIT_ENABLED", "true")
	require.NoError(t, cfg.ApplyEnv())
	assert.False(t, cfg.RateLimit.Disabled)
}

func TestRateLimitConfig_LimiterConfig(t *testing.T) {
	rl := RateLimitConfig{
		DefaultLimit:    20,
		DefaultWindow:   time.Second,
		CleanupInterval: time.Minute,
		Whitelist:       []string{"10.0.0.1", " "},
		Blacklist:       []string{" 10.0.0.9 "},
	}

	got := rl.LimiterConfig()
	assert.True(t, got.Enabled)
	assert.Equal(t, 20, got.DefaultLimit)
	assert.Equal(t, time.Second, got.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, got.Whitelist)
	assert.Equal(t, map[string]bool{"10.0.0.9": true}, got.Blacklist)
	assert.NotEmpty(t, got.EndpointConfigs)

	rl.Disabled = true
	assert.False(t, rl.LimiterConfig().Enabled)
}

func TestLoad_YAMLRateLimitAndZeroThreshold(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "")
	path := writeFile(t, "config.yaml", `
matching:
  threshold: 0
rate_limit:
  default_limit: 30
  default_window: 10s
  blacklist: [10.0.0.9]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Matching.Threshold)
	assert.Zero(t, *cfg.Matching.Threshold, "an explicit zero threshold is not replaced by the default")

	m, err := matching.New(cfg.Matching.MatcherConfig())
	require.NoError(t, err)
	assert.Zero(t, m.Threshold())

	assert.Equal(t, 30, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.CleanupInterval)
	assert.Equal(t, []string{"10.0.0.9"}, cfg.RateLimit.Blacklist)
}
