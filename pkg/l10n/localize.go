package l10n

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/y10n/pkg/cache"
)

// match is a document selected for a preference.
type match struct {
	tree Value
	tag  Tag
}

// Localize merges the catalog documents selected by prefs into one tree.
//
// prefs must already be ranked (ParsePreferences does that). Each acceptable
// preference is resolved through catalog.ResolveBest, unmatched preferences
// are skipped, and a document selected by several preferences is used once
// at its best rank. The documents are then folded from the least preferred
// to the most preferred, so the most preferred language wins every key it
// defines while the others fill the gaps.
//
// A wildcard preference selects the catalog's fallback document when the
// catalog implements FallbackCatalog. A document whose tag was given weight
// 0 is never selected. Without any match the result is an empty mapping.
func Localize(prefs []Preference, catalog Catalog) Value {
	return defaultMerger.MergeAll(foldOrder(resolve(prefs, catalog))...)
}

// MatchedTags returns the tags of the documents Localize would merge,
// most preferred first.
func MatchedTags(prefs []Preference, catalog Catalog) []Tag {
	matched := resolve(prefs, catalog)
	tags := make([]Tag, len(matched))
	for i, m := range matched {
		tags[i] = m.tag
	}
	return tags
}

func resolve(prefs []Preference, catalog Catalog) []match {
	var excluded map[Tag]bool
	for _, p := range prefs {
		if !p.Acceptable() && !p.Tag.IsWildcard() {
			if excluded == nil {
				excluded = make(map[Tag]bool)
			}
			excluded[p.Tag] = true
		}
	}

	var (
		matched []match
		seen    = make(map[Tag]bool, len(prefs))
	)

	for _, p := range prefs {
		if !p.Acceptable() {
			continue
		}

		var (
			tag  Tag
			tree Value
			ok   bool
		)
		if p.Tag.IsWildcard() {
			if fc, isFallback := catalog.(FallbackCatalog); isFallback {
				tag, tree, ok = fc.Fallback()
			}
		} else {
			tag, tree, ok = catalog.ResolveBest(p.Tag)
		}

		if !ok || seen[tag] || excluded[tag] {
			continue
		}
		seen[tag] = true
		matched = append(matched, match{tag: tag, tree: tree})
	}

	return matched
}

// foldOrder lists the matched trees least preferred first.
func foldOrder(matched []match) []Value {
	trees := make([]Value, len(matched))
	for i, m := range matched {
		trees[len(matched)-1-i] = m.tree
	}
	return trees
}

// Localizer resolves preference lists against a Store, optionally caching
// merged trees. It is safe for concurrent use.
type Localizer struct {
	store             *Store
	merger            *Merger
	cache             cache.Cache[Value]
	logger            *slog.Logger
	missingKeyHandler func(tags []Tag, key string)
	cacheTTL          time.Duration
}

// LocalizerOption configures a Localizer.
type LocalizerOption func(*Localizer)

// WithMerger sets the merger used to combine documents.
func WithMerger(m *Merger) LocalizerOption {
	return func(l *Localizer) {
		if m != nil {
			l.merger = m
		}
	}
}

// WithCache caches merged trees. Entries are keyed by the store content
// version and the matched tags, so they never outlive a reload.
// A zero ttl uses the cache's default TTL.
func WithCache(c cache.Cache[Value], ttl time.Duration) LocalizerOption {
	return func(l *Localizer) {
		l.cache = c
		l.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) LocalizerOption {
	return func(l *Localizer) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithMissingKeyHandler sets a handler that translators created by the
// Localizer call when a key is not found in the merged tree.
func WithMissingKeyHandler(fn func(tags []Tag, key string)) LocalizerOption {
	return func(l *Localizer) {
		l.missingKeyHandler = fn
	}
}

// NewLocalizer creates a Localizer over store.
func NewLocalizer(store *Store, opts ...LocalizerOption) *Localizer {
	if store == nil {
		panic("l10n: store is not provided")
	}

	l := &Localizer{
		store:  store,
		merger: defaultMerger,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Store returns the underlying store.
func (l *Localizer) Store() *Store {
	return l.store
}

// Localize merges the documents selected by prefs. See the Localize function.
func (l *Localizer) Localize(ctx context.Context, prefs []Preference) Value {
	tree, _ := l.localize(ctx, prefs)
	return tree
}

// LocalizeHeader parses an Accept-Language style value and localizes it.
func (l *Localizer) LocalizeHeader(ctx context.Context, raw string) Value {
	return l.Localize(ctx, ParsePreferences(raw))
}

// Translator returns a Translator over the tree merged for raw.
func (l *Localizer) Translator(ctx context.Context, raw string) *Translator {
	return l.TranslatorFor(ctx, ParsePreferences(raw))
}

// TranslatorFor returns a Translator over the tree merged for prefs.
func (l *Localizer) TranslatorFor(ctx context.Context, prefs []Preference) *Translator {
	tree, tags := l.localize(ctx, prefs)
	return NewTranslator(tree, tags, l.missingKeyHandler)
}

func (l *Localizer) localize(ctx context.Context, prefs []Preference) (Value, []Tag) {
	snap := l.store.Snapshot()
	matched := resolve(prefs, snap)

	tags := make([]Tag, len(matched))
	for i, m := range matched {
		tags[i] = m.tag
	}

	merge := func() Value {
		return l.merger.MergeAll(foldOrder(matched)...)
	}

	// A single document is returned as is, there is nothing to cache.
	if l.cache == nil || len(matched) < 2 {
		return merge(), tags
	}

	key := cacheKey(snap.Version(), l.merger.sequences, tags)
	tree, err := cache.GetOrSet(ctx, l.cache, key, func(context.Context) (Value, time.Duration, error) {
		return merge(), l.cacheTTL, nil
	})
	if err != nil {
		l.logger.WarnContext(ctx, "localization cache failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return merge(), tags
	}

	// The cached tree is shared by every caller with the same key.
	return Clone(tree), tags
}

func cacheKey(version string, policy SequencePolicy, tags []Tag) string {
	var b strings.Builder
	b.WriteString(version)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(policy)))
	b.WriteByte(':')
	for i, t := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.String())
	}
	return b.String()
}
