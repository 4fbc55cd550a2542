package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overrides fields from environment variables. Unset or empty variables leave the
// field alone; a value that does not parse is an error naming the variable.
//
//	DATABASE_URL, PORT, LOG_JSON, DEBUG
//	AUTO_ASSIGN_CONCURRENCY, AUTO_ASSIGN_COMMIT_RETRIES
//	RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW,
//	RATE_LIMIT_CLEANUP_INTERVAL, RATE_LIMIT_WHITELIST, RATE_LIMIT_BLACKLIST
func (c *Config) ApplyEnv() error {
	envString("DATABASE_URL", &c.DatabaseURL)
	envList("RATE_LIMIT_WHITELIST", &c.RateLimit.Whitelist)
	envList("RATE_LIMIT_BLACKLIST", &c.RateLimit.Blacklist)

	enabled := !c.RateLimit.Disabled
	steps := []error{
		envInt("PORT", &c.Port),
		envInt("AUTO_ASSIGN_CONCURRENCY", &c.AutoAssign.Concurrency),
		envInt("AUTO_ASSIGN_COMMIT_RETRIES", &c.AutoAssign.CommitRetries),
		envBool("LOG_JSON", &c.LogJSON),
		envBool("DEBUG", &c.Debug),
		envBool("RATE_LIMIT_ENABLED", &enabled),
		envInt("RATE_LIMIT_DEFAULT_LIMIT", &c.RateLimit.DefaultLimit),
		envDuration("RATE_LIMIT_DEFAULT_WINDOW", &c.RateLimit.DefaultWindow),
		envDuration("RATE_LIMIT_CLEANUP_INTERVAL", &c.RateLimit.CleanupInterval),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	c.RateLimit.Disabled = !enabled

	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envList splits a comma-separated variable, dropping blank entries.
func envList(key string, dst *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func envInt(key string, dst *int) error {
	return envParse(key, dst, strconv.Atoi)
}

func envBool(key string, dst *bool) error {
	return envParse(key, dst, strconv.ParseBool)
}

func envDuration(key string, dst *time.Duration) error {
	return envParse(key, dst, time.ParseDuration)
}

func envParse[T any](key string, dst *T, parse func(string) (T, error)) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := parse(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = parsed
	return nil
}
