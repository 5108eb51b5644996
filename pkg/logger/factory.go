package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Option configures a logger built by New or NewWithSentry.
type Option func(*options)

type options struct {
	out        io.Writer
	extractors []ContextExtractor
	level      slog.Level
}

func defaultOptions() *options {
	return &options{out: os.Stdout, level: slog.LevelInfo}
}

// WithLevel sets the minimum level written to the output.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput redirects the JSON output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithExtractors adds context extractors applied to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// New creates a JSON-formatted logger.
func New(opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return slog.New(NewLogHandlerDecorator(o.handler(), o.extractors...))
}

func (o *options) handler() slog.Handler {
	return slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: o.level})
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Anything else yields slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
