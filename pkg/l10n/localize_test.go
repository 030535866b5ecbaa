package l10n_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/cache"
	"github.com/dmitrymomot/y10n/pkg/l10n"
)

func greetingStore(t *testing.T, opts ...l10n.StoreOption) *l10n.Store {
	t.Helper()

	return l10n.NewStore([]l10n.Document{
		doc(t, "en", "greeting: hello"),
		doc(t, "de", "greeting: hallo\nfarewell: tschüss"),
	}, opts...)
}

func TestLocalize(t *testing.T) {
	t.Parallel()

	store := greetingStore(t)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "most preferred wins",
			header: "de,en;q=0.5",
			want:   "{greeting: hallo, farewell: tschüss}",
		},
		{
			name:   "less preferred fills gaps",
			header: "en,de;q=0.5",
			want:   "{greeting: hello, farewell: tschüss}",
		},
		{
			name:   "zero weight is never selected",
			header: "de;q=0",
			want:   "{}",
		},
		{
			name:   "zero weight excludes document reached otherwise",
			header: "de-DE,de;q=0",
			want:   "{}",
		},
		{
			name:   "malformed entry dropped",
			header: "de;q=abc,en",
			want:   "greeting: hello",
		},
		{
			name:   "region falls back to base",
			header: "de-DE",
			want:   "{greeting: hallo, farewell: tschüss}",
		},
		{
			name:   "unmatched preferences skipped",
			header: "fr,ja;q=0.9,en;q=0.1",
			want:   "greeting: hello",
		},
		{
			name:   "nothing matches",
			header: "fr",
			want:   "{}",
		},
		{
			name:   "empty header",
			header: "",
			want:   "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := l10n.Localize(l10n.ParsePreferences(tt.header), store)
			requireTree(t, tt.want, got)
		})
	}
}

func TestLocalize_Wildcard(t *testing.T) {
	t.Parallel()

	store := greetingStore(t, l10n.WithFallback(l10n.MustParseTag("en")))

	got := l10n.Localize(l10n.ParsePreferences("fr,*;q=0.1"), store)
	requireTree(t, "greeting: hello", got)

	got = l10n.Localize(l10n.ParsePreferences("de,*"), store)
	requireTree(t, "{greeting: hallo, farewell: tschüss}", got)

	// An explicit q=0 wins over the wildcard.
	got = l10n.Localize(l10n.ParsePreferences("*,en;q=0"), store)
	requireTree(t, "{}", got)
}

func TestLocalize_DocumentUsedOnce(t *testing.T) {
	t.Parallel()

	store := greetingStore(t)
	prefs := l10n.ParsePreferences("de-DE,en;q=0.8,de-AT;q=0.5")

	require.Equal(t,
		[]l10n.Tag{l10n.MustParseTag("de"), l10n.MustParseTag("en")},
		l10n.MatchedTags(prefs, store),
	)
	requireTree(t, "{greeting: hallo, farewell: tschüss}", l10n.Localize(prefs, store))
}

func TestLocalize_DoesNotModifyStore(t *testing.T) {
	t.Parallel()

	store := greetingStore(t)
	_ = l10n.Localize(l10n.ParsePreferences("en,de"), store)

	de, _ := store.Get(l10n.MustParseTag("de"))
	requireTree(t, "greeting: hallo\nfarewell: tschüss", de)
	en, _ := store.Get(l10n.MustParseTag("en"))
	requireTree(t, "greeting: hello", en)
}

func TestLocalize_ResultOwnedByCaller(t *testing.T) {
	t.Parallel()

	store := l10n.NewStore([]l10n.Document{
		doc(t, "en", "greeting: hello\nnav: {home: Home}"),
		doc(t, "de", "greeting: hallo"),
	})

	t.Run("single document", func(t *testing.T) {
		t.Parallel()

		got := l10n.Localize(l10n.ParsePreferences("en"), store).(*l10n.Mapping)
		got.Set("greeting", l10n.Scalar("changed"))

		en, _ := store.Get(l10n.MustParseTag("en"))
		requireTree(t, "greeting: hello\nnav: {home: Home}", en)
	})

	t.Run("merged documents", func(t *testing.T) {
		t.Parallel()

		got := l10n.Localize(l10n.ParsePreferences("de,en;q=0.5"), store).(*l10n.Mapping)
		nav, _ := got.Get("nav")
		nav.(*l10n.Mapping).Set("home", l10n.Scalar("changed"))

		en, _ := store.Get(l10n.MustParseTag("en"))
		requireTree(t, "greeting: hello\nnav: {home: Home}", en)
	})

	t.Run("cached tree", func(t *testing.T) {
		t.Parallel()

		loc := l10n.NewLocalizer(store, l10n.WithCache(cache.NewMemory[l10n.Value](), time.Minute))

		first := loc.LocalizeHeader(t.Context(), "de,en").(*l10n.Mapping)
		first.Set("greeting", l10n.Scalar("changed"))
		nav, _ := first.Get("nav")
		nav.(*l10n.Mapping).Set("home", l10n.Scalar("changed"))

		second := loc.LocalizeHeader(t.Context(), "de,en")
		requireTree(t, "greeting: hallo\nnav: {home: Home}", second)

		en, _ := store.Get(l10n.MustParseTag("en"))
		requireTree(t, "greeting: hello\nnav: {home: Home}", en)
	})
}

type countingCache struct {
	cache.Cache[l10n.Value]
	sets atomic.Int32
}

func (c *countingCache) Set(ctx context.Context, key string, v l10n.Value, ttl time.Duration) error {
	c.sets.Add(1)
	return c.Cache.Set(ctx, key, v, ttl)
}

type failingCache struct {
	cache.Cache[l10n.Value]
}

func (failingCache) Get(context.Context, string) (l10n.Value, error) {
	return nil, errors.New("unavailable")
}

func TestLocalizer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("matches the plain function", func(t *testing.T) {
		t.Parallel()

		store := greetingStore(t)
		l := l10n.NewLocalizer(store)

		requireTree(t, "{greeting: hello, farewell: tschüss}", l.LocalizeHeader(ctx, "en,de;q=0.5"))
	})

	t.Run("caches merged trees", func(t *testing.T) {
		t.Parallel()

		store := greetingStore(t)
		c := &countingCache{Cache: cache.NewMemory[l10n.Value]()}
		l := l10n.NewLocalizer(store, l10n.WithCache(c, time.Minute))

		for range 3 {
			requireTree(t, "{greeting: hello, farewell: tschüss}", l.LocalizeHeader(ctx, "en,de"))
		}
		require.Equal(t, int32(1), c.sets.Load())

		// A single document is not cached.
		_ = l.LocalizeHeader(ctx, "de")
		require.Equal(t, int32(1), c.sets.Load())
	})

	t.Run("reload invalidates cached trees", func(t *testing.T) {
		t.Parallel()

		store := greetingStore(t)
		l := l10n.NewLocalizer(store, l10n.WithCache(cache.NewMemory[l10n.Value](), 0))

		requireTree(t, "{greeting: hello, farewell: tschüss}", l.LocalizeHeader(ctx, "en,de"))

		store.Put(l10n.MustParseTag("en"), tree(t, "greeting: hi"))
		requireTree(t, "{greeting: hi, farewell: tschüss}", l.LocalizeHeader(ctx, "en,de"))
	})

	t.Run("unavailable cache still yields merged tree", func(t *testing.T) {
		t.Parallel()

		store := greetingStore(t)
		c := &failingCache{Cache: cache.NewMemory[l10n.Value]()}
		require.NoError(t, c.Close())
		l := l10n.NewLocalizer(store, l10n.WithCache(c, 0))

		requireTree(t, "{greeting: hallo, farewell: tschüss}", l.LocalizeHeader(ctx, "de,en"))
	})

	t.Run("translator reports missing keys", func(t *testing.T) {
		t.Parallel()

		var missing []string
		store := greetingStore(t)
		l := l10n.NewLocalizer(store, l10n.WithMissingKeyHandler(func(tags []l10n.Tag, key string) {
			missing = append(missing, tags[0].String()+":"+key)
		}))

		tr := l.Translator(ctx, "de-CH,en;q=0.2")
		require.Equal(t, "hallo", tr.T("greeting"))
		require.Equal(t, "nope", tr.T("nope"))
		require.Equal(t, []string{"de:nope"}, missing)
		require.Equal(t, "de", tr.Language().String())
	})

	t.Run("nil store panics", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() { l10n.NewLocalizer(nil) })
	})
}
