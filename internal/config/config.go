// Package config reads the y10n server configuration from the environment
// and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/y10n/pkg/db"
	"github.com/dmitrymomot/y10n/pkg/l10n"
	"github.com/dmitrymomot/y10n/pkg/logger"
	"github.com/dmitrymomot/y10n/pkg/source"
)

// Source kinds accepted in L10N_SOURCES.
const (
	SourceDir      = "dir"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config is the complete server configuration.
type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`

	Translations Translations
	Cache        Cache
	Sentry       logger.SentryConfig
	S3           source.S3Config
	Database     db.Config
}

// Translations configures where documents come from and how they merge.
type Translations struct {
	Sources        []string `env:"L10N_SOURCES" envDefault:"dir" envSeparator:","`
	Dir            string   `env:"L10N_DIR" envDefault:"./l10n"`
	Pattern        string   `env:"L10N_PATTERN" envDefault:"**/*.yml"`
	Fallback       string   `env:"L10N_FALLBACK" envDefault:"en"`
	Sequences      string   `env:"L10N_SEQUENCES" envDefault:"replace"`
	ReloadSchedule string   `env:"L10N_RELOAD_SCHEDULE"`
	// Migrate applies the database migrations on startup when the
	// postgres source is enabled.
	Migrate bool `env:"L10N_MIGRATE" envDefault:"true"`
}

// Cache configures the merged-tree cache. Without a Redis URL an
// in-process cache is used.
type Cache struct {
	RedisURL   string        `env:"REDIS_URL"`
	Prefix     string        `env:"CACHE_PREFIX" envDefault:"y10n"`
	TTL        time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	MaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"1024"`
	Disabled   bool          `env:"CACHE_DISABLED" envDefault:"false"`
}

// Load reads .env files (missing files are skipped), then the process
// environment, and validates the result. Variables already set in the
// environment win over .env values.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch logger.Format(strings.ToLower(c.LogFormat)) {
	case logger.FormatJSON, logger.FormatText:
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	t := c.Translations
	if len(t.Sources) == 0 {
		return errors.New("L10N_SOURCES must name at least one source")
	}
	for _, s := range t.Sources {
		switch strings.TrimSpace(s) {
		case SourceDir:
			if t.Dir == "" || t.Pattern == "" {
				return errors.New("L10N_DIR and L10N_PATTERN are required for the dir source")
			}
		case SourceS3:
			if c.S3.Bucket == "" {
				return errors.New("S3_BUCKET is required for the s3 source")
			}
		case SourcePostgres:
			if c.Database.ConnectionString == "" {
				return errors.New("DATABASE_URL is required for the postgres source")
			}
		default:
			return fmt.Errorf("L10N_SOURCES: unknown source %q", s)
		}
	}
	if t.Fallback != "" {
		tag, err := l10n.ParseTag(t.Fallback)
		if err != nil {
			return fmt.Errorf("L10N_FALLBACK: %w", err)
		}
		if tag.IsWildcard() {
			return errors.New("L10N_FALLBACK must name a language")
		}
	}
	if t.Sequences != "replace" && t.Sequences != "append" {
		return fmt.Errorf("L10N_SEQUENCES must be replace or append, got %q", t.Sequences)
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("CACHE_MAX_ENTRIES must be >= 0")
	}
	return nil
}

// Uses reports whether the named source kind is enabled.
func (c *Config) Uses(kind string) bool {
	return slices.ContainsFunc(c.Translations.Sources, func(s string) bool {
		return strings.TrimSpace(s) == kind
	})
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

// FallbackTag returns the configured fallback language, or the zero Tag.
func (c *Config) FallbackTag() l10n.Tag {
	tag, _ := l10n.ParseTag(c.Translations.Fallback)
	return tag
}

// SequencePolicy returns the configured sequence merge policy.
func (c *Config) SequencePolicy() l10n.SequencePolicy {
	if c.Translations.Sequences == "append" {
		return l10n.SequenceAppend
	}
	return l10n.SequenceReplace
}
