package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultFormat         = "cloudwatch"
	DefaultOutput         = "table"
	DefaultLogLevel       = "warn"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLevel    = "LOGSENTINEL_LEVEL"
	EnvOutput   = "LOGSENTINEL_OUTPUT"
	EnvLogLevel = "LOGSENTINEL_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:   DefaultFormat,
		Output:   DefaultOutput,
		LogLevel: DefaultLogLevel,
		Webhooks: []WebhookConfig{},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if level := os.Getenv(EnvLevel); level != "" {
		c.Filters.Level = level
	}
	if out := os.Getenv(EnvOutput); out != "" {
		c.Output = out
	}
	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		c.LogLevel = logLevel
	}
}
