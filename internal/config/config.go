// Package config loads tforge settings from .tforge.yaml, TFORGE_* environment
// variables and command-line flags bound through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime configuration for a tforge invocation.
// Values are populated from .tforge.yaml, TFORGE_* env vars, and CLI flags.
type Config struct {
	StorePath        string   `mapstructure:"store_path"`
	OutputDir        string   `mapstructure:"output_dir"`
	OwnerName        string   `mapstructure:"owner_name"`
	TemplateDirs     []string `mapstructure:"template_dirs"`
	TemplatePatterns []string `mapstructure:"template_patterns"`
	RemoteURL        string   `mapstructure:"remote_url"`
	ServerAddr       string   `mapstructure:"server_addr"`
	TelemetryPath    string   `mapstructure:"telemetry_path"`
	Verbose          bool     `mapstructure:"verbose"`
}

// DefaultStorePath is the registry database location: ~/.tforge/tforge.db, or
// .tforge.db in the working directory when no home directory is known.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tforge.db"
	}
	return filepath.Join(home, ".tforge", "tforge.db")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("store_path", DefaultStorePath())
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("owner_name", "Team")
	viper.SetDefault("template_dirs", []string{})
	viper.SetDefault("template_patterns", []string{"*.yaml", "*.yml"})
	viper.SetDefault("remote_url", "")
	viper.SetDefault("server_addr", "127.0.0.1:7411")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("config: store_path is empty: %w", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir is empty: %w", ErrInvalid)
	}
	for _, p := range c.TemplatePatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("config: template pattern %q: %w", p, ErrInvalid)
		}
	}
	return nil
}
