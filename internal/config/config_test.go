package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.MaxPainBandLow != 0.6 || cfg.Engine.MaxPainBandHigh != 1.4 {
		t.Errorf("max pain band = [%.2f, %.2f], want [0.60, 1.40]", cfg.Engine.MaxPainBandLow, cfg.Engine.MaxPainBandHigh)
	}
	if cfg.Engine.WallThresholdMultiplier != 2.0 {
		t.Errorf("wall threshold = %.2f, want 2.0", cfg.Engine.WallThresholdMultiplier)
	}
	if cfg.Engine.MaxDTE != 60 {
		t.Errorf("max dte = %d, want 60", cfg.Engine.MaxDTE)
	}
	if cfg.Engine.MaxMagneticLevels != 15 {
		t.Errorf("max magnetic levels = %d, want 15", cfg.Engine.MaxMagneticLevels)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("api port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Analysis.CacheTTL != 300 {
		t.Errorf("cache ttl = %d, want 300", cfg.Analysis.CacheTTL)
	}
	if cfg.Data.Source != "file" {
		t.Errorf("data source = %q, want file", cfg.Data.Source)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PINPOINT_API_PORT", "9090")
	t.Setenv("PINPOINT_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("api port = %d, want env override 9090", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want env override debug", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
engine:
  max_dte: 45
  max_magnetic_levels: 10
api:
  port: 3001
`)
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Engine.MaxDTE != 45 {
		t.Errorf("max dte = %d, want 45 from file", cfg.Engine.MaxDTE)
	}
	if cfg.Engine.MaxMagneticLevels != 10 {
		t.Errorf("max magnetic levels = %d, want 10 from file", cfg.Engine.MaxMagneticLevels)
	}
	if cfg.API.Port != 3001 {
		t.Errorf("api port = %d, want 3001 from file", cfg.API.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Engine.WallThresholdMultiplier != 2.0 {
		t.Errorf("wall threshold = %.2f, want default 2.0", cfg.Engine.WallThresholdMultiplier)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Engine: EngineConfig{
				MaxPainBandLow:          0.6,
				MaxPainBandHigh:         1.4,
				WallThresholdMultiplier: 2.0,
				MaxDTE:                  60,
				MaxMagneticLevels:       15,
			},
			API: APIConfig{Port: 8080},
		}
	}

	if err := func() error { c := valid(); return c.Validate() }(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted band", func(c *Config) { c.Engine.MaxPainBandHigh = 0.5 }},
		{"zero band low", func(c *Config) { c.Engine.MaxPainBandLow = 0 }},
		{"threshold below one", func(c *Config) { c.Engine.WallThresholdMultiplier = 0.5 }},
		{"inverted dte window", func(c *Config) { c.Engine.MinDTE = 90 }},
		{"zero magnetic levels", func(c *Config) { c.Engine.MaxMagneticLevels = 0 }},
		{"bad port", func(c *Config) { c.API.Port = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCheckAPIKeys(t *testing.T) {
	cfg := &Config{}
	statuses := CheckAPIKeys(cfg)
	if len(statuses) != 1 {
		t.Fatalf("len(statuses) = %d, want 1", len(statuses))
	}
	if statuses[0].IsSet || statuses[0].Source != KeySourceNone {
		t.Errorf("unset key reported as %+v", statuses[0])
	}

	cfg.Data.APIKey = "pk_live_0123456789abcdef"
	statuses = CheckAPIKeys(cfg)
	if !statuses[0].IsSet || statuses[0].Source != KeySourceConfig {
		t.Errorf("config key reported as %+v", statuses[0])
	}
	if statuses[0].Masked != "pk_...def" {
		t.Errorf("Masked = %q, want pk_...def", statuses[0].Masked)
	}
}
