package compiler

import (
	"log/slog"
	"time"

	"github.com/syssam/icetype"
)

// Option configures schema assembly.
type Option func(*config) error

type config struct {
	clock  func() time.Time
	logger *slog.Logger
}

// WithClock sets the clock used for createdAt and updatedAt.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		if clock == nil {
			return icetype.NewConfigError("Clock", nil, "clock cannot be nil")
		}
		c.clock = clock
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

func newConfig(opts []Option) (*config, error) {
	c := &config{
		clock:  func() time.Time { return time.Now().UTC() },
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
