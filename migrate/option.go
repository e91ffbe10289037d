package migrate

import (
	"log/slog"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/dialect"
)

// Option configures migration planning.
type Option func(*config) error

type config struct {
	dialect string
	logger  *slog.Logger
}

// WithDialect sets the dialect recorded on the plan.
func WithDialect(name string) Option {
	return func(c *config) error {
		if !dialect.Valid(name) {
			return icetype.NewConfigError("Dialect", name, "unsupported dialect")
		}
		c.dialect = name
		return nil
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return icetype.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
