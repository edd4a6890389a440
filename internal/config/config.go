package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Leads   LeadsConfig   `yaml:"leads" mapstructure:"leads"`
	Stats   StatsConfig   `yaml:"stats" mapstructure:"stats"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Maps Platform credentials and endpoints.
type GoogleConfig struct {
	Key           string  `yaml:"key" mapstructure:"key"`
	PlacesBaseURL string  `yaml:"places_base_url" mapstructure:"places_base_url"`
	RateLimit     float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// GeocodeConfig configures location lookups.
type GeocodeConfig struct {
	CacheTTLMins int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SearchConfig configures place searches.
type SearchConfig struct {
	RadiusMeters      float64 `yaml:"radius_meters" mapstructure:"radius_meters"`
	ResultCap         int     `yaml:"result_cap" mapstructure:"result_cap"`
	DebounceMs        int     `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	DefaultLat        float64 `yaml:"default_lat" mapstructure:"default_lat"`
	DefaultLng        float64 `yaml:"default_lng" mapstructure:"default_lng"`
	EnrichConcurrency int     `yaml:"enrich_concurrency" mapstructure:"enrich_concurrency"`
}

// RetryConfig configures retries of provider calls.
type RetryConfig struct {
	Attempts    int `yaml:"attempts" mapstructure:"attempts"`
	BaseDelayMs int `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	MaxDelayMs  int `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
}

// LeadsConfig configures the lead store.
type LeadsConfig struct {
	SeedPath string `yaml:"seed_path" mapstructure:"seed_path"`
}

// StatsConfig holds externally supplied dashboard metrics.
type StatsConfig struct {
	// ConversionRate is reported as is; nil means it is not tracked.
	ConversionRate *float64 `yaml:"conversion_rate" mapstructure:"conversion_rate"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment. A .env file in the working directory is optional and
	// never overrides variables that are already set.
	_ = godotenv.Load()
	v.SetEnvPrefix("SMECRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.key", "")
	v.SetDefault("google.places_base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.rate_limit", 10)
	v.SetDefault("geocode.cache_ttl_mins", 60)
	v.SetDefault("geocode.rate_limit", 10)
	v.SetDefault("search.radius_meters", 5000)
	v.SetDefault("search.result_cap", 20)
	v.SetDefault("search.debounce_ms", 500)
	v.SetDefault("search.default_lat", 40.7128)
	v.SetDefault("search.default_lng", -74.0060)
	v.SetDefault("search.enrich_concurrency", 4)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.base_delay_ms", 250)
	v.SetDefault("retry.max_delay_ms", 5000)
	v.SetDefault("leads.seed_path", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
