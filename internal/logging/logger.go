// Package logging builds the leveled diagnostic logger. Diagnostics go to stderr so they never
// mix with command output or the terminal UI on stdout.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"fastodo/internal/config"
)

// Options holds configuration for the diagnostic logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
	Output          io.Writer
}

// DefaultOptions returns warn-level text logging to stderr.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "fastodo",
		Output:          os.Stderr,
	}
}

// OptionsFromConfig raises the level to info for verbose runs and to debug when debugging.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.Application.Verbose {
		opts.Level = log.InfoLevel
	}
	if cfg.Application.Debug || DebugEnabled() {
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
	}
	return opts
}

// New creates a logger with the given options.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// NewFromConfig creates the application logger and installs it as the package default.
func NewFromConfig(cfg *config.Config) *log.Logger {
	logger := New(OptionsFromConfig(cfg))
	log.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
