package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Google.PlacesBaseURL)
	assert.InDelta(t, 5000, cfg.Search.RadiusMeters, 0)
	assert.Equal(t, 20, cfg.Search.ResultCap)
	assert.Equal(t, 500, cfg.Search.DebounceMs)
	assert.InDelta(t, 40.7128, cfg.Search.DefaultLat, 0.0001)
	assert.InDelta(t, -74.0060, cfg.Search.DefaultLng, 0.0001)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 60, cfg.Geocode.CacheTTLMins)
	assert.Empty(t, cfg.Google.Key)
	assert.Empty(t, cfg.Leads.SeedPath)
	assert.Nil(t, cfg.Stats.ConversionRate)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
google:
  key: file-key
log:
  level: debug
  format: console
server:
  port: 9090
search:
  result_cap: 10
leads:
  seed_path: leads.yaml
stats:
  conversion_rate: 0.24
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Google.Key)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Search.ResultCap)
	assert.Equal(t, "leads.yaml", cfg.Leads.SeedPath)
	require.NotNil(t, cfg.Stats.ConversionRate)
	assert.InDelta(t, 0.24, *cfg.Stats.ConversionRate, 0.0001)
	// Defaults still apply for unset values
	assert.InDelta(t, 5000, cfg.Search.RadiusMeters, 0)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
google:
  key: file-key
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SMECRM_GOOGLE_KEY", "env-key")
	t.Setenv("SMECRM_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "env-key", cfg.Google.Key)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SMECRM_SERVER_PORT", "3000")
	t.Setenv("SMECRM_SEARCH_RADIUS_METERS", "2500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.InDelta(t, 2500, cfg.Search.RadiusMeters, 0)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMECRM_SERVER_PORT=7070\nSMECRM_LOG_LEVEL=debug\n"), 0644))
	t.Setenv("SMECRM_LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("SMECRM_SERVER_PORT") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	// Already-set variables win over .env
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Google.Key = "test-key"
	cfg.Search.RadiusMeters = 5000
	cfg.Search.ResultCap = 20
	cfg.Search.DebounceMs = 500
	cfg.Search.DefaultLat = 40.7128
	cfg.Search.DefaultLng = -74.0060
	cfg.Retry.Attempts = 3
	cfg.Server.Port = 8000
	return cfg
}

func TestValidateSearch_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("search"))
}

func TestValidateSearch_MissingKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Google.Key = ""

	err := cfg.Validate("search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "google.key is required")
}

func TestValidateSearch_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"radius zero", func(c *Config) { c.Search.RadiusMeters = 0 }, "search.radius_meters"},
		{"radius too large", func(c *Config) { c.Search.RadiusMeters = 60000 }, "search.radius_meters"},
		{"cap zero", func(c *Config) { c.Search.ResultCap = 0 }, "search.result_cap"},
		{"cap too large", func(c *Config) { c.Search.ResultCap = 21 }, "search.result_cap"},
		{"negative debounce", func(c *Config) { c.Search.DebounceMs = -1 }, "search.debounce_ms"},
		{"latitude", func(c *Config) { c.Search.DefaultLat = 91 }, "search.default_lat"},
		{"longitude", func(c *Config) { c.Search.DefaultLng = -181 }, "search.default_lng"},
		{"attempts", func(c *Config) { c.Retry.Attempts = 0 }, "retry.attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("search")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_NoKeyNeeded(t *testing.T) {
	cfg := validDefaults()
	cfg.Google.Key = ""

	assert.NoError(t, cfg.Validate("serve"))

	cfg.Search.ResultCap = 0
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "google.key")
	assert.Contains(t, err.Error(), "search.result_cap")
}

func TestValidateLeads_NoKeyNeeded(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate("leads"))
}

func TestValidateConversionRate(t *testing.T) {
	cfg := validDefaults()
	rate := 1.5
	cfg.Stats.ConversionRate = &rate

	err := cfg.Validate("leads")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stats.conversion_rate")

	rate = 0.3
	assert.NoError(t, cfg.Validate("leads"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
