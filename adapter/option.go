package adapter

import (
	"go/token"
	"log/slog"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/dialect"
)

// Config holds the options passed to Transform. Adapters read the fields
// they understand and ignore the rest.
type Config struct {
	// Dialect selects the target SQL dialect.
	Dialect string
	// Package is the package name for generated source code.
	Package string
	// SystemFields controls whether $id, $createdAt, etc. are materialized.
	SystemFields bool
	// Logger receives debug records. Never nil after NewConfig.
	Logger *slog.Logger
}

// Option configures an adapter run.
type Option func(*Config) error

// NewConfig applies opts over the defaults: postgres, package "model",
// system fields on and a discard logger.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		Dialect:      dialect.Postgres,
		Package:      "model",
		SystemFields: true,
		Logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithDialect sets the target dialect.
func WithDialect(name string) Option {
	return func(c *Config) error {
		if !dialect.Valid(name) {
			return icetype.NewConfigError("Dialect", name, "unsupported dialect")
		}
		c.Dialect = name
		return nil
	}
}

// WithPackage sets the package name of generated code.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return icetype.NewConfigError("Package", name, "package name must be a valid Go identifier")
		}
		c.Package = name
		return nil
	}
}

// WithSystemFields toggles the output of system fields.
func WithSystemFields(enabled bool) Option {
	return func(c *Config) error {
		c.SystemFields = enabled
		return nil
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return icetype.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}
