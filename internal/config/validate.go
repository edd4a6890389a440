package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// maxResultCap is the largest page the Places API returns.
const maxResultCap = 20

// Validate checks the settings a command needs. mode is the command name:
// "search", "serve" or "leads".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "search":
		if c.Google.Key == "" {
			problems = append(problems, "google.key is required")
		}
		problems = append(problems, c.validateSearch()...)
	case "serve":
		// Without a key the API runs with search disabled.
		problems = append(problems, c.validateSearch()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	case "leads":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if r := c.Stats.ConversionRate; r != nil && (*r < 0 || *r > 1) {
		problems = append(problems, "stats.conversion_rate must be between 0 and 1")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateSearch() []string {
	var problems []string
	if c.Search.RadiusMeters <= 0 || c.Search.RadiusMeters > 50000 {
		problems = append(problems, "search.radius_meters must be > 0 and <= 50000")
	}
	if c.Search.ResultCap < 1 || c.Search.ResultCap > maxResultCap {
		problems = append(problems, "search.result_cap must be between 1 and 20")
	}
	if c.Search.DebounceMs < 0 {
		problems = append(problems, "search.debounce_ms must be >= 0")
	}
	if c.Search.DefaultLat < -90 || c.Search.DefaultLat > 90 {
		problems = append(problems, "search.default_lat must be between -90 and 90")
	}
	if c.Search.DefaultLng < -180 || c.Search.DefaultLng > 180 {
		problems = append(problems, "search.default_lng must be between -180 and 180")
	}
	if c.Retry.Attempts < 1 {
		problems = append(problems, "retry.attempts must be >= 1")
	}
	return problems
}
