// Package config loads the calculator configuration from a YAML file,
// with .env and environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete calculator configuration.
type Config struct {
	Calc    CalcConfig    `yaml:"calc"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// CalcConfig controls the calculation run.
type CalcConfig struct {
	Workers           int    `yaml:"workers"`            // 0: one per CPU
	ReportingCurrency string `yaml:"reporting_currency"` // empty: natural trade currency
}

// StorageConfig controls where fixings are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// Load reads the YAML file at path, loading a .env file first if one
// exists. Environment variables override the YAML values for the keys
// they cover. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg, nil
}

// applyEnvOverrides overrides values from environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RATECALC_REPORTING_CURRENCY"); v != "" {
		cfg.Calc.ReportingCurrency = v
	}
	if v := os.Getenv("RATECALC_FIXINGS_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills in required values.
func setDefaults(cfg *Config) {
	if cfg.Calc.Workers < 0 {
		cfg.Calc.Workers = 0
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "ratecalc.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}
