// Package config provides centralized configuration for the comparison
// server. Settings come from environment variables with sensible defaults
// and are validated on startup so misconfiguration fails fast. Comparison
// tuning can additionally be loaded from a YAML rules file.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all server configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Compare CompareConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds uploaded file handling settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxStoredResults is the number of comparison results kept in memory (default: 64)
	MaxStoredResults int `env:"UPLOAD_MAX_STORED_RESULTS" default:"64"`
}

// CompareConfig holds comparison tuning settings.
type CompareConfig struct {
	// RulesPath is an optional YAML rules file overriding the tuning below
	RulesPath string `env:"COMPARE_RULES_PATH"`

	// UniquenessThreshold is the minimum uniqueness ratio for key candidates (default: 0.95)
	UniquenessThreshold float64 `env:"COMPARE_UNIQUENESS_THRESHOLD" default:"0.95"`

	// NamePenalty is the score factor for case-insensitive-only name matches (default: 0.9)
	NamePenalty float64 `env:"COMPARE_NAME_PENALTY" default:"0.9"`

	// NullLiterals are cell values treated as null, comma separated
	NullLiterals []string `env:"COMPARE_NULL_LITERALS"`

	// Keys are key columns pinned per table name, from the rules file
	Keys []KeyRule
}

// KeyFor returns the pinned key columns for a table, or nil when no rule
// names it.
func (c *CompareConfig) KeyFor(table string) []string {
	for _, rule := range c.Keys {
		if rule.Table == table {
			return rule.Columns
		}
	}
	return nil
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.MaxStoredResults <= 0 {
		errs = append(errs, "UPLOAD_MAX_STORED_RESULTS must be positive")
	}

	if c.Compare.UniquenessThreshold <= 0 || c.Compare.UniquenessThreshold > 1 {
		errs = append(errs, fmt.Sprintf("COMPARE_UNIQUENESS_THRESHOLD (%v) must be in (0, 1]",
			c.Compare.UniquenessThreshold))
	}
	if c.Compare.NamePenalty <= 0 || c.Compare.NamePenalty > 1 {
		errs = append(errs, fmt.Sprintf("COMPARE_NAME_PENALTY (%v) must be in (0, 1]",
			c.Compare.NamePenalty))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a string representation of the config for startup logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Upload: {MaxFileSize: %d, MaxStoredResults: %d}, ",
		c.Upload.MaxFileSize, c.Upload.MaxStoredResults))
	b.WriteString(fmt.Sprintf("Compare: {UniquenessThreshold: %v, NamePenalty: %v}, ",
		c.Compare.UniquenessThreshold, c.Compare.NamePenalty))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
