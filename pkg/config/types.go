// Package config provides configuration loading and validation for LogSentinel.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Format is the input format name (cloudwatch).
	Format string `yaml:"format"`

	// Output is the output format name (table, json).
	Output string `yaml:"output"`

	// LogLevel is the level of LogSentinel's own diagnostics on stderr.
	LogLevel string `yaml:"log_level"`

	// Filters holds the default filter settings for parse runs.
	Filters FilterConfig `yaml:"filters"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// FilterConfig holds default filter settings. Command-line flags take
// precedence when set.
type FilterConfig struct {
	// Level is the minimum severity to display. Empty disables level filtering.
	Level string `yaml:"level,omitempty"`

	// Search is a keyword that messages or metadata values must contain.
	Search string `yaml:"search,omitempty"`

	CaseSensitive bool `yaml:"case_sensitive,omitempty"`
	Dedup         bool `yaml:"dedup,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when ERROR or CRITICAL entries are displayed (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every parse run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending parse reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	// ${VAR} and $VAR are expanded from the environment.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_errors" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns the webhook name, or its URL when unnamed.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
