// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ErrAPIKeyRequired is returned when ODYSSEY_API_KEY is not set. It is
// checked before any network activity happens.
var ErrAPIKeyRequired = errors.New("config: ODYSSEY_API_KEY is required")

// Config holds all configuration for the demo generator.
type Config struct {
	// Odyssey settings
	OdysseyAPIKey  string `env:"ODYSSEY_API_KEY, required" json:"-"` // Masked in JSON
	OdysseyBaseURL string `env:"ODYSSEY_BASE_URL" json:"odyssey_base_url,omitempty"`

	// Batch settings
	OutputDir       string        `env:"OUTPUT_DIR, default=public/demos/odyssey-airbnb" json:"output_dir"`
	WorklistPath    string        `env:"WORKLIST_PATH" json:"worklist_path,omitempty"`
	PollInterval    time.Duration `env:"POLL_INTERVAL, default=5s" json:"poll_interval"`
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS, default=240" json:"poll_max_attempts"` // 0 disables the bound

	// Optional S3 mirror settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 mirror configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns ErrAPIKeyRequired if the credential is not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain error for the credential
		if strings.Contains(err.Error(), "ODYSSEY_API_KEY") {
			return nil, ErrAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.OdysseyAPIKey == "" {
		return ErrAPIKeyRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{OutputDir: %s, WorklistPath: %s, PollInterval: %s, PollMaxAttempts: %d, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.OutputDir,
		c.WorklistPath,
		c.PollInterval,
		c.PollMaxAttempts,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
