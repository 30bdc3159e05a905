package library

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI-level settings read from library.yaml.
type Config struct {
	DatabasePath string `yaml:"database"`
	SeedFile     string `yaml:"seed_file"`
	AdminEmail   string `yaml:"admin_email"`
	LoanDays     int    `yaml:"loan_days"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		DatabasePath: "library.db",
		AdminEmail:   DefaultAdminEmail,
		LoanDays:     7,
	}
}

// LoadConfig reads the YAML config at path. A missing file yields the
// defaults; a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "library.db"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = DefaultAdminEmail
	}
	if cfg.LoanDays <= 0 {
		cfg.LoanDays = 7
	}
	return cfg, nil
}

// LoanPeriod converts the configured loan days into a duration.
func (c Config) LoanPeriod() time.Duration {
	return time.Duration(c.LoanDays) * 24 * time.Hour
}

// Options translates the config into library open options.
func (c Config) Options() []Option {
	opts := []Option{
		WithLoanPeriod(c.LoanPeriod()),
		WithDefaultAdminEmail(c.AdminEmail),
	}
	if c.SeedFile != "" {
		opts = append(opts, WithSeedFile(c.SeedFile))
	}
	return opts
}
