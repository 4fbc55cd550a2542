package config

import (
	"strings"
	"time"

	"github.com/jonathan/datagraph/internal/server/ratelimit"
)

// RateLimitConfig holds the HTTP rate limiter settings. DefaultLimit applies to endpoints without
// their own entry. Whitelisted client IPs are never limited; blacklisted ones are always rejected.
// Durations are written as "30s" in YAML and as nanoseconds in JSON.
type RateLimitConfig struct {
	Disabled        bool          `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	DefaultLimit    int           `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
	DefaultWindow   time.Duration `json:"default_window,omitempty" yaml:"default_window,omitempty"`
	CleanupInterval time.Duration `json:"cleanup_interval,omitempty" yaml:"cleanup_interval,omitempty"`
	Whitelist       []string      `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
	Blacklist       []string      `json:"blacklist,omitempty" yaml:"blacklist,omitempty"`
}

// LimiterConfig converts the settings into a ratelimit.Config with the standard endpoint table.
func (r RateLimitConfig) LimiterConfig() *ratelimit.Config {
	return &ratelimit.Config{
		Enabled:         !r.Disabled,
		DefaultLimit:    r.DefaultLimit,
		DefaultWindow:   r.DefaultWindow,
		CleanupInterval: r.CleanupInterval,
		Whitelist:       ipSet(r.Whitelist),
		Blacklist:       ipSet(r.Blacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
}

func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
