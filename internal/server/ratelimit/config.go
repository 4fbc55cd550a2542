package ratelimit

import "time"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, "{name}" segment pattern, or "/"-suffixed prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Defaults for the limit applied to endpoints without their own entry.
const (
	DefaultLimit           = 1000
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// DefaultConfig returns an enabled limiter configuration with the standard endpoint table.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    DefaultLimit,
		DefaultWindow:   DefaultWindow,
		CleanupInterval: DefaultCleanupInterval,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Assignment runs (strictest limits)
		{Path: "/projects/auto-assign", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/projects/{id}/assign", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 2: Write operations (moderate limits)
		{Path: "/projects", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/projects/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/users", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/users/{id}/profile", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/assignments/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 3: Match previews score the whole pool
		{Path: "/projects/{id}/matches", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 4: Other reads - handled by default limit
		// Tier 5: Health check (unlimited) - handled by special case in matcher
	}
}
