package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/y10n/internal/config"
	"github.com/dmitrymomot/y10n/internal/reloader"
	"github.com/dmitrymomot/y10n/internal/server"
	"github.com/dmitrymomot/y10n/middlewares"
	"github.com/dmitrymomot/y10n/pkg/cache"
	"github.com/dmitrymomot/y10n/pkg/db"
	"github.com/dmitrymomot/y10n/pkg/l10n"
	"github.com/dmitrymomot/y10n/pkg/logger"
	rdb "github.com/dmitrymomot/y10n/pkg/redis"
	"github.com/dmitrymomot/y10n/pkg/source"
)

// ServeCmd runs the HTTP server. It is configured from the environment,
// see internal/config; the global flags do not apply.
type ServeCmd struct {
	EnvFile []string `name:"env-file" help:"Dotenv files to load; missing files are skipped" default:".env" type:"path"`
}

func (c *ServeCmd) Run(_ *Globals) error {
	cfg, err := config.Load(c.EnvFile...)
	if err != nil {
		return err
	}

	log, err := logger.New(
		logger.WithLevel(cfg.Level()),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithExtractors(middlewares.RequestIDExtractor(), middlewares.LanguageExtractor()),
		logger.WithSentry(cfg.Sentry),
	)
	if err != nil {
		return err
	}

	app, err := build(context.Background(), cfg, log)
	if err != nil {
		return err
	}

	return server.Run(context.Background(), server.RunConfig{
		Handler:         app.handler,
		Logger:          log,
		Address:         cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		ShutdownHooks:   app.hooks,
	})
}

type app struct {
	handler http.Handler
	hooks   []func(context.Context) error
}

// build wires the configured sources, cache and reloader into a server.
// Resources opened before a failure are released.
func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			for _, hook := range a.hooks {
				_ = hook(shutdownCtx)
			}
		}
	}()

	var (
		sources []source.Source
		srvOpts = []server.Option{server.WithLogger(log)}
	)

	if cfg.Uses(config.SourceDir) {
		sources = append(sources, source.Dir(cfg.Translations.Dir, cfg.Translations.Pattern))
	}
	if cfg.Uses(config.SourceS3) {
		s3src, err := source.NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s3src)
	}
	if cfg.Uses(config.SourcePostgres) {
		pool, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.hooks = append(a.hooks, db.Shutdown(pool))
		srvOpts = append(srvOpts, server.WithCheck("postgres", db.Healthcheck(pool)))

		if cfg.Translations.Migrate {
			if err := db.Migrate(ctx, pool, cfg.Database.MigrationsTable, log); err != nil {
				return nil, err
			}
		}
		sources = append(sources, source.Postgres(pool))
	}

	store := l10n.NewStore(nil, l10n.WithFallback(cfg.FallbackTag()))
	locOpts := []l10n.LocalizerOption{
		l10n.WithMerger(l10n.NewMerger(l10n.WithSequencePolicy(cfg.SequencePolicy()))),
		l10n.WithLogger(log),
	}

	var memory *cache.Memory[l10n.Value]
	switch {
	case cfg.Cache.Disabled:
	case cfg.Cache.RedisURL != "":
		client, err := rdb.Open(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		a.hooks = append(a.hooks, rdb.Shutdown(client))
		srvOpts = append(srvOpts, server.WithCheck("redis", rdb.Healthcheck(client)))

		shared := cache.NewRedis[l10n.Value](client, l10n.ValueMarshaler{},
			cache.WithPrefix(cfg.Cache.Prefix),
			cache.WithRedisDefaultTTL(cfg.Cache.TTL),
		)
		locOpts = append(locOpts, l10n.WithCache(shared, cfg.Cache.TTL))
	default:
		memory = cache.NewMemory[l10n.Value](
			cache.WithDefaultTTL(cfg.Cache.TTL),
			cache.WithMaxEntries(cfg.Cache.MaxEntries),
		)
		a.hooks = append(a.hooks, func(context.Context) error { return memory.Close() })
		locOpts = append(locOpts, l10n.WithCache(memory, cfg.Cache.TTL))
	}

	rl := reloader.New(store, source.Multi(sources...),
		reloader.WithLogger(log),
		reloader.WithOnReload(func(ctx context.Context, res reloader.Result) {
			// Entries are keyed by content version, old ones are only dead weight.
			if memory != nil {
				_ = memory.Clear(ctx)
			}
			log.InfoContext(ctx, "translations reloaded",
				slog.String("version", res.Version),
				slog.Int("documents", res.Documents),
			)
		}),
	)

	if _, err := rl.ReloadNow(ctx); err != nil {
		return nil, fmt.Errorf("initial load: %w", err)
	}
	if cfg.Translations.ReloadSchedule != "" {
		if err := rl.Start(cfg.Translations.ReloadSchedule); err != nil {
			return nil, err
		}
		a.hooks = append([]func(context.Context) error{rl.Stop}, a.hooks...)
	}

	if cfg.Sentry.DSN != "" {
		a.hooks = append(a.hooks, func(context.Context) error {
			if !sentry.Flush(2 * time.Second) {
				return errors.New("sentry: flush timed out")
			}
			return nil
		})
	}

	srvOpts = append(srvOpts, server.WithReloader(rl))
	a.handler = server.New(l10n.NewLocalizer(store, locOpts...), srvOpts...).Handler()
	return a, nil
}
