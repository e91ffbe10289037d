// Package validate checks assembled schemas for semantic problems: unknown
// directive references, unresolvable projection paths and conflicting
// modifiers. Validation never fails fast; every issue is collected.
package validate

import (
	"fmt"
	"strings"

	"github.com/syssam/icetype"
)

// Issue is a single validation finding.
type Issue struct {
	Path    string
	Message string
	Code    icetype.Code
}

// String returns the issue as "path: message [CODE]".
func (i *Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s [%s]", i.Message, i.Code)
	}
	return fmt.Sprintf("%s: %s [%s]", i.Path, i.Message, i.Code)
}

// Result holds the results of validating one schema.
type Result struct {
	Valid    bool
	Errors   []*Issue
	Warnings []*Issue
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Codes returns the codes of all errors, in order.
func (r *Result) Codes() []icetype.Code {
	codes := make([]icetype.Code, len(r.Errors))
	for i, e := range r.Errors {
		codes[i] = e.Code
	}
	return codes
}

// Err returns nil for a valid result, or an error matching
// icetype.ErrInvalidSchema that lists every error.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	return fmt.Errorf("%w: %s", icetype.ErrInvalidSchema, strings.Join(msgs, "; "))
}

// String returns a human-readable summary of the validation result.
func (r *Result) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.String())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.String())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *Result) errorf(code icetype.Code, path, format string, args ...any) {
	r.Errors = append(r.Errors, &Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warnf(code icetype.Code, path, format string, args ...any) {
	r.Warnings = append(r.Warnings, &Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) finish(cfg *config) *Result {
	if cfg.strict {
		r.Errors = append(r.Errors, r.Warnings...)
		r.Warnings = nil
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// Option configures validation.
type Option func(*config)

type config struct {
	strict bool
}

// WithStrict reports warnings as errors.
func WithStrict() Option {
	return func(c *config) {
		c.strict = true
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
