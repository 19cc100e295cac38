package tui

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// OutputFormat controls how the final outcome is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the outcome as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures the prefixes printed in front of feedback lines.
type Theme struct {
	HintSuccess string
	HintWarning string
	ErrorPrefix string
}

// DefaultTheme mirrors the notification icons.
var DefaultTheme = Theme{
	HintSuccess: "✓",
	HintWarning: "⚠",
	ErrorPrefix: "✗",
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where notifications and confetti are printed.
func WithOutput(out io.Writer) Option {
	return func(s *Session) {
		if out != nil {
			s.out = out
		}
	}
}

// WithOutputFormat selects the outcome serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.format = format
		}
	}
}

// WithTheme overrides the feedback prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithColor toggles ANSI colours on terminal output.
func WithColor(enabled bool) Option {
	return func(s *Session) {
		s.color = enabled
	}
}

// WithStyles overrides the notification palette.
func WithStyles(styles notify.Styles) Option {
	return func(s *Session) {
		if len(styles) > 0 {
			s.styles = styles
		}
	}
}

// WithEngine replaces the validation engine.
func WithEngine(engine *validation.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithSubmission overrides the simulated submission delay and success text.
func WithSubmission(delay time.Duration, successText string) Option {
	return func(s *Session) {
		if delay > 0 {
			s.submitDelay = delay
		}
		if successText != "" {
			s.successText = successText
		}
	}
}

// WithMaxAttempts bounds how many times a field is re-prompted. Zero means no
// limit.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// WithCelebration toggles the confetti burst after a successful submission.
func WithCelebration(enabled bool) Option {
	return func(s *Session) {
		s.celebrate = enabled
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
