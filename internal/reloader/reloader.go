// Package reloader refreshes a translation store from its source, on demand
// or on a cron schedule.
package reloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/y10n/pkg/l10n"
	"github.com/dmitrymomot/y10n/pkg/source"
)

// Result describes a successful reload.
type Result struct {
	At         time.Time `json:"at"`
	Version    string    `json:"version"`
	Generation uint64    `json:"generation"`
	Documents  int       `json:"documents"`
	Changed    bool      `json:"changed"`
}

// Status is the state of the last reload attempt.
type Status struct {
	LastSuccess Result    `json:"last_success"`
	LastAttempt time.Time `json:"last_attempt"`
	LastError   string    `json:"last_error,omitempty"`
}

// Reloader loads a source into a store. Reloads are serialized; a failed
// reload leaves the store untouched.
type Reloader struct {
	store    *l10n.Store
	src      source.Source
	logger   *slog.Logger
	now      func() time.Time
	onReload []func(ctx context.Context, res Result)
	cron     *cron.Cron
	status   Status
	mu       sync.Mutex // serializes reloads
	cronMu   sync.Mutex
	statusMu sync.RWMutex
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reloader) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithOnReload registers a callback run after every reload that changed
// the store content, e.g. to clear a shared cache.
func WithOnReload(fn func(ctx context.Context, res Result)) Option {
	return func(r *Reloader) {
		if fn != nil {
			r.onReload = append(r.onReload, fn)
		}
	}
}

// New creates a Reloader.
func New(store *l10n.Store, src source.Source, opts ...Option) *Reloader {
	r := &Reloader{
		store:  store,
		src:    src,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReloadNow loads the source and swaps the result into the store.
func (r *Reloader) ReloadNow(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := r.now()
	log := r.logger.With(slog.String("source", r.src.Name()))

	docs, err := r.src.Load(ctx)
	if err == nil && len(docs) == 0 {
		err = ErrNoDocuments
	}
	if err != nil {
		r.setStatus(func(s *Status) {
			s.LastAttempt = started
			s.LastError = err.Error()
		})
		log.ErrorContext(ctx, "translation reload failed", slog.String("error", err.Error()))
		return Result{}, err
	}

	before := r.store.Snapshot().Version()
	r.store.Replace(docs)
	snap := r.store.Snapshot()

	res := Result{
		At:         started,
		Version:    snap.Version(),
		Generation: snap.Generation(),
		Documents:  snap.Len(),
		Changed:    snap.Version() != before,
	}
	r.setStatus(func(s *Status) {
		s.LastAttempt = started
		s.LastError = ""
		s.LastSuccess = res
	})

	log.InfoContext(ctx, "translations reloaded",
		slog.Int("documents", res.Documents),
		slog.String("version", res.Version),
		slog.Bool("changed", res.Changed),
		slog.Duration("took", r.now().Sub(started)),
	)

	if res.Changed {
		for _, fn := range r.onReload {
			fn(ctx, res)
		}
	}

	return res, nil
}

// Start reloads on a cron schedule: five fields ("*/5 * * * *") or a
// descriptor such as "@every 30s". A run that is still going when the next
// one is due is skipped.
func (r *Reloader) Start(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}

	r.cronMu.Lock()
	defer r.cronMu.Unlock()
	if r.cron != nil {
		return ErrAlreadyStarted
	}

	logger := cronLogger{r.logger}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(sched, cron.FuncJob(func() {
		_, _ = r.ReloadNow(context.Background())
	}))
	c.Start()
	r.cron = c

	r.logger.Info("translation reloader started", slog.String("schedule", schedule))
	return nil
}

// Stop stops the schedule and waits for a running reload, or for ctx.
func (r *Reloader) Stop(ctx context.Context) error {
	r.cronMu.Lock()
	c := r.cron
	r.cron = nil
	r.cronMu.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("reloader: stop interrupted"), ctx.Err())
	}
}

// Status returns the state of the last reload attempt.
func (r *Reloader) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}

func (r *Reloader) setStatus(fn func(*Status)) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	fn(&r.status)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
