// Package config handles configuration loading for pinpoint. It
// supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"   yaml:"engine"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Data     DataConfig     `mapstructure:"data"     yaml:"data"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// EngineConfig holds the fair-value engine tunables.
type EngineConfig struct {
	// Strike band for max pain, as fractions of spot.
	MaxPainBandLow  float64 `mapstructure:"max_pain_band_low"  yaml:"max_pain_band_low"`
	MaxPainBandHigh float64 `mapstructure:"max_pain_band_high" yaml:"max_pain_band_high"`

	// Gamma wall detection threshold, as a multiple of median OI.
	WallThresholdMultiplier float64 `mapstructure:"wall_threshold_multiplier" yaml:"wall_threshold_multiplier"`

	// Expiration window in days to expiry.
	MinDTE int `mapstructure:"min_dte" yaml:"min_dte"`
	MaxDTE int `mapstructure:"max_dte" yaml:"max_dte"`

	// Round-number band around spot, as a fraction of spot.
	RoundBandFraction float64 `mapstructure:"round_band_fraction" yaml:"round_band_fraction"`

	// Cap on the ranked magnetic level list.
	MaxMagneticLevels int `mapstructure:"max_magnetic_levels" yaml:"max_magnetic_levels"`
}

// AnalysisConfig holds result caching and fan-out settings.
type AnalysisConfig struct {
	CacheTTL          int `mapstructure:"cache_ttl"          yaml:"cache_ttl"` // seconds
	ConcurrentFetches int `mapstructure:"concurrent_fetches" yaml:"concurrent_fetches"`
}

// DataConfig holds market data source settings.
type DataConfig struct {
	// Source selects the snapshot provider: "file".
	Source string `mapstructure:"source" yaml:"source"`

	// Dir is the snapshot directory for the file source.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// APIKey authenticates against a hosted data vendor, when one is
	// wired in. Unused by the file source.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Rate limit applied to source calls.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.pinpoint/config.yaml (home directory)
//  3. /etc/pinpoint/config.yaml (system)
//
// Environment variables override config file values.
// Format: PINPOINT_<SECTION>_<KEY>, e.g., PINPOINT_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".pinpoint"))
	v.AddConfigPath("/etc/pinpoint")

	v.SetEnvPrefix("PINPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not required to exist; defaults plus env suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("PINPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MaxPainBandLow <= 0 || c.Engine.MaxPainBandHigh <= c.Engine.MaxPainBandLow {
		return fmt.Errorf("invalid max pain band [%.2f, %.2f]", c.Engine.MaxPainBandLow, c.Engine.MaxPainBandHigh)
	}
	if c.Engine.WallThresholdMultiplier < 1 {
		return fmt.Errorf("wall threshold multiplier %.2f must be >= 1", c.Engine.WallThresholdMultiplier)
	}
	if c.Engine.MaxDTE < c.Engine.MinDTE {
		return fmt.Errorf("dte window [%d, %d] is inverted", c.Engine.MinDTE, c.Engine.MaxDTE)
	}
	if c.Engine.MaxMagneticLevels < 1 {
		return fmt.Errorf("max magnetic levels %d must be >= 1", c.Engine.MaxMagneticLevels)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api port %d", c.API.Port)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.max_pain_band_low", 0.6)
	v.SetDefault("engine.max_pain_band_high", 1.4)
	v.SetDefault("engine.wall_threshold_multiplier", 2.0)
	v.SetDefault("engine.min_dte", 0)
	v.SetDefault("engine.max_dte", 60)
	v.SetDefault("engine.round_band_fraction", 0.20)
	v.SetDefault("engine.max_magnetic_levels", 15)

	// Analysis defaults
	v.SetDefault("analysis.cache_ttl", 300) // 5 minutes
	v.SetDefault("analysis.concurrent_fetches", 5)

	// Data defaults
	v.SetDefault("data.source", "file")
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.rate_limit", 5.0)
	v.SetDefault("data.rate_burst", 10)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv explicitly reads sensitive keys from environment
// variables so they never need to live in a config file.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("PINPOINT_DATA_API_KEY"); key != "" {
		cfg.Data.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
