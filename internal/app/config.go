package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/reportfinder/internal/lookup"
	"github.com/hyperifyio/reportfinder/internal/registry"
	"github.com/hyperifyio/reportfinder/internal/report"
	"github.com/hyperifyio/reportfinder/internal/search"
)

// Config holds runtime configuration for the application.
type Config struct {
	InputPath  string
	OutputPath string

	// Registry
	BodyTypes string
	Encoding  string

	// Search
	Provider       string
	BingKey        string
	BingEndpoint   string
	SearxURL       string
	SearxKey       string
	FileSearchPath string
	UserAgent      string
	RequestTimeout time.Duration

	// Pacing and retry
	SearchInterval   time.Duration
	RetryBackoff     time.Duration
	RetryMaxAttempts int // 0 retries until the provider answers

	// Output
	OutputShape string

	// Checkpoints
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Encoding:         registry.DefaultEncoding,
		Provider:         search.NameBing,
		BingEndpoint:     search.DefaultBingEndpoint,
		UserAgent:        "reportfinder/" + BuildVersion,
		RequestTimeout:   30 * time.Second,
		SearchInterval:   lookup.DefaultInterval,
		RetryBackoff:     lookup.DefaultBackoff,
		RetryMaxAttempts: lookup.DefaultMaxAttempts,
		OutputShape:      string(report.ShapeSplit),
	}
}

// ConfigError reports an invalid or missing setting detected at startup.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %s: %v", e.Field, e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }

// SearchOptions maps the search settings onto provider options.
func (c Config) SearchOptions() search.Options {
	return search.Options{
		Provider:     c.Provider,
		BingKey:      c.BingKey,
		BingEndpoint: c.BingEndpoint,
		SearxURL:     c.SearxURL,
		SearxKey:     c.SearxKey,
		FilePath:     c.FileSearchPath,
		UserAgent:    c.UserAgent,
		Timeout:      c.RequestTimeout,
	}
}

// Validate checks every setting, including that the selected provider has
// the credentials it needs.
func (c Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}
	if _, err := search.New(c.SearchOptions()); err != nil {
		return &ConfigError{Field: "provider", Err: err}
	}
	return nil
}

// validateRun checks the settings that do not depend on the provider.
func (c Config) validateRun() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return &ConfigError{Field: "input", Err: errors.New("registry path is required")}
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return &ConfigError{Field: "output", Err: errors.New("output path is required")}
	}
	if _, err := report.ParseShape(c.OutputShape); err != nil {
		return &ConfigError{Field: "output.shape", Err: err}
	}
	if c.RetryMaxAttempts < 0 {
		return &ConfigError{Field: "retry.maxAttempts", Err: errors.New("must be >= 0")}
	}
	if c.SearchInterval < 0 || c.RetryBackoff < 0 || c.RequestTimeout < 0 {
		return &ConfigError{Field: "durations", Err: errors.New("must not be negative")}
	}
	return nil
}
