// Package config loads the option-iv YAML configuration.
//
// Values may reference environment variables as ${VAR}; a .env file in the
// working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	RiskFreeRate            *float64       `yaml:"risk_free_rate"`
	IDIncludesExecutionDate *bool          `yaml:"id_includes_execution_date"`
	Workers                 int            `yaml:"workers"`
	Solver                  SolverConfig   `yaml:"solver"`
	Database                DatabaseConfig `yaml:"database"`
	Server                  ServerConfig   `yaml:"server"`
	Massive                 MassiveConfig  `yaml:"massive"`
	Report                  ReportConfig   `yaml:"report"`
	Log                     LogConfig      `yaml:"log"`
}

type SolverConfig struct {
	Lower         *float64 `yaml:"lower"`
	Upper         float64  `yaml:"upper"`
	Tolerance     float64  `yaml:"tolerance"`
	MaxIterations int      `yaml:"max_iterations"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr     string        `yaml:"addr"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// MassiveConfig enables the spot fallback when APIKey is set.
type MassiveConfig struct {
	APIKey     string  `yaml:"api_key"`
	Underlying string  `yaml:"underlying"`
	Fallback   float64 `yaml:"fallback_spot"`
}

type ReportConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Verbosity *int `yaml:"verbosity"`
}

// Rate returns the configured risk-free rate.
func (c *Config) Rate() float64 {
	if c.RiskFreeRate == nil {
		return DefaultRiskFreeRate
	}
	return *c.RiskFreeRate
}

// LoadEnv loads variables from .env files; missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates. An empty
// path yields the defaults.
func LoadAndValidate(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
