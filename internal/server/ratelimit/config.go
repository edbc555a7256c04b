package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RouteLimit overrides the default budget for one route.
type RouteLimit struct {
	// Pattern uses ServeMux syntax, e.g. "POST /internships/{id}/applications".
	// Every request matching it draws from one bucket per client.
	Pattern string
	Limit   int
	Window  time.Duration
	// Burst is the bucket capacity; Limit when zero.
	Burst int
}

// LoadConfig reads the limiter configuration from RATE_LIMIT_* variables.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 600, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		ExemptRoles:     splitSet(os.Getenv("RATE_LIMIT_EXEMPT_ROLES"), strings.ToUpper),
		Blocked:         splitSet(os.Getenv("RATE_LIMIT_BLOCKED"), strings.ToLower),
		Routes:          DefaultRoutes(),
	}
}

// DefaultRoutes returns the per-route budgets. Routes not listed share the
// client's default budget.
func DefaultRoutes() []RouteLimit {
	return []RouteLimit{
		// Student submissions
		{Pattern: "POST /internships/{id}/applications", Limit: 30, Window: time.Hour, Burst: 5},
		{Pattern: "POST /dtrs", Limit: 20, Window: time.Hour, Burst: 5},

		// Staff writes
		{Pattern: "POST /internships", Limit: 60, Window: time.Hour, Burst: 10},
		{Pattern: "POST /dtrs/{id}/review", Limit: 200, Window: time.Minute, Burst: 20},
		{Pattern: "PATCH /applications/{id}/status", Limit: 200, Window: time.Minute, Burst: 20},
		{Pattern: "PUT /students/{id}/hours", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "PUT /students/{id}/status", Limit: 100, Window: time.Minute, Burst: 10},

		// Ranking scores every active listing
		{Pattern: "GET /students/{id}/matches", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// splitSet parses a comma separated list into a set, normalizing each entry.
func splitSet(list string, norm func(string) string) map[string]bool {
	set := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = norm(strings.TrimSpace(item)); item != "" {
			set[item] = true
		}
	}
	return set
}
