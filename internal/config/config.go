// Package config defines the process configuration and its loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - All loaders accept context.Context as the first parameter.
// - Loading and validation errors wrap this package's sentinels.
package config

import (
	"context"
	"fmt"
)

// Validation bounds.
const (
	maxPrecision = 10
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Scale is the assumed upper bound of every attribute value.
	Scale float64 `koanf:"scale"`

	// Precision is the number of decimals each score is rounded to.
	Precision int `koanf:"precision"`

	// ClampScores bounds scores to [0,1] when attribute values exceed Scale.
	ClampScores bool `koanf:"clamp_scores"`

	// MetricsFile, when set, receives the run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Scale:       10,
		Precision:   1,
		ClampScores: true,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidConfig, c.Scale)
	}
	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("%w: precision must be between 0 and %d, got %d", ErrInvalidConfig, maxPrecision, c.Precision)
	}
	return nil
}
