package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// SentryConfig holds Sentry integration settings.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// ErrorsOnly forwards only error records instead of warnings and errors.
	ErrorsOnly bool `env:"SENTRY_ERRORS_ONLY" envDefault:"false"`
}

// Option configures a logger.
type Option func(*options)

type options struct {
	output     io.Writer
	format     Format
	extractors []ContextExtractor
	sentry     SentryConfig
	level      slog.Level
}

// WithLevel sets the minimum level written to the output.
// Default: slog.LevelInfo
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFormat sets the output encoding.
// Default: FormatJSON
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithOutput sets the destination.
// Default: os.Stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithExtractors adds context extractors applied to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithSentry forwards warnings and errors to Sentry. An empty DSN
// disables forwarding.
func WithSentry(cfg SentryConfig) Option {
	return func(o *options) {
		o.sentry = cfg
	}
}

// New creates a logger. It fails only on an unknown format; a Sentry
// initialization failure is logged and the logger falls back to the
// output alone.
func New(opts ...Option) (*slog.Logger, error) {
	o := &options{
		output: os.Stdout,
		format: FormatJSON,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}

	var out slog.Handler
	switch Format(strings.ToLower(string(o.format))) {
	case FormatJSON, "":
		out = slog.NewJSONHandler(o.output, hopts)
	case FormatText:
		out = slog.NewTextHandler(o.output, hopts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", o.format)
	}

	if o.sentry.DSN == "" {
		return slog.New(NewContextHandler(out, o.extractors...)), nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         o.sentry.DSN,
		Environment: o.sentry.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(out).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(out, o.extractors...)), nil
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if o.sentry.ErrorsOnly {
		logLevels = []slog.Level{slog.LevelError}
	}
	toSentry := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewContextHandler(fanout{out, toSentry}, o.extractors...)), nil
}

// ParseLevel parses "debug", "info", "warn" or "error" (any case).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: %w", err)
	}
	return level, nil
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
