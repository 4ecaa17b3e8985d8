// Package config loads service settings from flags, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MEALPREF"

// Config holds the settings for the intake server.
type Config struct {
	Transport string        `mapstructure:"transport"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	NoticeTTL time.Duration `mapstructure:"notice_ttl"`
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewViper returns a viper instance with defaults and MEALPREF_* environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("transport", "http")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8012)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("notice_ttl", "3s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Transport != "http" {
		errs = append(errs, ValidationError{"transport", fmt.Sprintf("unsupported transport %q", c.Transport)})
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ValidationError{"port", fmt.Sprintf("must be between 1 and 65535, got %d", c.Port)})
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, ValidationError{"log_format", fmt.Sprintf("must be json or console, got %q", c.LogFormat)})
	}
	if c.NoticeTTL <= 0 {
		errs = append(errs, ValidationError{"notice_ttl", "must be positive"})
	}
	return errors.Join(errs...)
}

// Address is the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
