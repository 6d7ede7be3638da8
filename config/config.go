// Package config provides YAML configuration parsing for moistureboard.
//
// This package enables running moistureboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Greenhouse
//	port: 8080
//	poll_interval: 5s
//	initial_limit: 50
//
//	endpoint:
//	  url: ${TELEMETRY_API_URL:-http://localhost:8000/api/readings}
//	  timeout: 10s
//	  headers:
//	    Authorization: Bearer ${API_TOKEN}
//
//	log_level: debug
//	log_format: text
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/moistureboard"
)

const (
	// EndpointEnvVar supplies the telemetry API URL when the file leaves it empty.
	EndpointEnvVar = "TELEMETRY_API_URL"

	defaultPort         = 8080
	defaultPollInterval = 5 * time.Second
	defaultPage         = 1
	defaultLimit        = 20
)

// minPollInterval is the minimum non-zero polling interval for configs.
// This prevents accidental DoS of the telemetry API with overly aggressive polling.
const minPollInterval = 1 * time.Second

// Log formats accepted by log_format.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config is the root configuration structure for moistureboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Empty uses the SDK default.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Endpoint is the telemetry API to poll.
	Endpoint EndpointConfig `yaml:"endpoint"`

	// PollInterval is the time between background refreshes.
	// Accepts duration strings like "5s", "1m". "0s" disables the timer.
	// Defaults to 5s when omitted.
	PollInterval *Duration `yaml:"poll_interval"`

	// InitialPage is the first page requested. Defaults to 1.
	InitialPage int `yaml:"initial_page"`

	// InitialLimit is the page size. Defaults to 20.
	InitialLimit int `yaml:"initial_limit"`

	// Enabled controls whether polling starts active. Defaults to true.
	Enabled *bool `yaml:"enabled"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// LogFormat is json or text. Defaults to json.
	LogFormat string `yaml:"log_format"`
}

// EndpointConfig defines the telemetry API endpoint.
type EndpointConfig struct {
	// URL is the readings endpoint.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}.
	// When empty, $TELEMETRY_API_URL is used, then moistureboard.DefaultEndpointURL.
	URL string `yaml:"url"`

	// Timeout bounds each request. Zero means no timeout.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// PollEvery returns the configured poll interval.
func (c *Config) PollEvery() time.Duration {
	if c.PollInterval == nil {
		return defaultPollInterval
	}
	return c.PollInterval.Duration()
}

// IsEnabled reports whether polling starts active.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var level slog.Level
	// validated in Parse
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return Parse(nil)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the endpoint URL and header values.
// Defaults are applied for every omitted field.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.InitialPage == 0 {
		cfg.InitialPage = defaultPage
	}
	if cfg.InitialLimit == 0 {
		cfg.InitialLimit = defaultLimit
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatJSON
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.PollInterval != nil {
		d := c.PollInterval.Duration()
		if d < 0 {
			return fmt.Errorf("poll_interval cannot be negative, got %s", d)
		}
		if d != 0 && d < minPollInterval {
			return fmt.Errorf("poll_interval must be 0 or at least %s, got %s", minPollInterval, d)
		}
	}

	if c.InitialPage < 0 {
		return fmt.Errorf("initial_page must be positive, got %d", c.InitialPage)
	}
	if c.InitialLimit < 0 {
		return fmt.Errorf("initial_limit must be positive, got %d", c.InitialLimit)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		return fmt.Errorf("log_format must be %q or %q, got %q", LogFormatJSON, LogFormatText, c.LogFormat)
	}

	return c.Endpoint.expandAndValidate()
}

func (e *EndpointConfig) expandAndValidate() error {
	if e.URL == "" {
		e.URL = os.Getenv(EndpointEnvVar)
	}
	if e.URL == "" {
		e.URL = moistureboard.DefaultEndpointURL
	}

	expanded, err := expandEnvVars(e.URL)
	if err != nil {
		return fmt.Errorf("endpoint.url: %w", err)
	}
	e.URL = expanded

	parsedURL, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("endpoint.url: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("endpoint.url: url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("endpoint.url: url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("endpoint.url: url must have a host")
	}

	for k, v := range e.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("endpoint.headers[%s]: %w", k, err)
		}
		e.Headers[k] = expanded
	}

	if e.Timeout != 0 {
		if e.Timeout.Duration() < 0 {
			return fmt.Errorf("endpoint.timeout cannot be negative, got %s", e.Timeout.Duration())
		}
		if e.Timeout.Duration() < 100*time.Millisecond {
			return fmt.Errorf("endpoint.timeout must be at least 100ms if specified, got %s", e.Timeout.Duration())
		}
	}

	return nil
}
