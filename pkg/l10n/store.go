package l10n

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Document is a translation tree loaded for one language.
type Document struct {
	Tag  Tag
	Tree Value
}

// Catalog resolves a requested tag to the best loaded document.
// Both *Store and *Snapshot implement it.
type Catalog interface {
	ResolveBest(tag Tag) (Tag, Value, bool)
}

// FallbackCatalog is a Catalog that can also answer a wildcard preference.
type FallbackCatalog interface {
	Catalog
	Fallback() (Tag, Value, bool)
}

// Store holds one translation tree per language tag.
//
// Reads never block: the store publishes immutable snapshots through an
// atomic pointer, and writers build a new snapshot and swap it in. A
// reader therefore sees either the complete old document set or the
// complete new one.
type Store struct {
	current  atomic.Pointer[Snapshot]
	fallback Tag
	mu       sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithFallback names the document a wildcard ("*") preference resolves to.
func WithFallback(tag Tag) StoreOption {
	return func(s *Store) {
		s.fallback = tag
	}
}

// NewStore creates a store holding docs. Later documents replace earlier
// ones with the same tag.
func NewStore(docs []Document, opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	snap := &Snapshot{docs: make(map[Tag]Value, len(docs)), fallback: s.fallback}
	for _, d := range docs {
		snap.docs[d.Tag] = d.Tree
	}
	s.current.Store(snap)

	return s
}

// Snapshot returns the current immutable view of the store.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Put inserts or replaces the document for exactly tag.
func (s *Store) Put(tag Tag, tree Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	docs := maps.Clone(old.docs)
	docs[tag] = tree

	s.current.Store(&Snapshot{docs: docs, generation: old.generation + 1, fallback: s.fallback})
}

// Replace swaps the whole document set, e.g. after reloading translation
// files. Later documents replace earlier ones with the same tag.
func (s *Store) Replace(docs []Document) {
	next := make(map[Tag]Value, len(docs))
	for _, d := range docs {
		next[d.Tag] = d.Tree
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	s.current.Store(&Snapshot{docs: next, generation: old.generation + 1, fallback: s.fallback})
}

// Get returns the document for exactly tag.
func (s *Store) Get(tag Tag) (Value, bool) {
	return s.Snapshot().Get(tag)
}

// ResolveBest returns the document for tag, falling back to its base
// language when tag has a region.
func (s *Store) ResolveBest(tag Tag) (Tag, Value, bool) {
	return s.Snapshot().ResolveBest(tag)
}

// Fallback returns the document used for wildcard preferences.
func (s *Store) Fallback() (Tag, Value, bool) {
	return s.Snapshot().Fallback()
}

// Tags returns the loaded tags in canonical order.
func (s *Store) Tags() []Tag {
	return s.Snapshot().Tags()
}

// Len returns the number of loaded documents.
func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// Generation increments with every write. It identifies a document set,
// e.g. as part of a cache key.
func (s *Store) Generation() uint64 {
	return s.Snapshot().Generation()
}

// Snapshot is an immutable view of a Store at one generation.
type Snapshot struct {
	docs        map[Tag]Value
	version     string
	fallback    Tag
	generation  uint64
	versionOnce sync.Once
}

// Version returns a digest of the snapshot content. Unlike Generation it
// is stable across processes that loaded the same documents, which makes
// it suitable for keys in a shared cache.
func (s *Snapshot) Version() string {
	s.versionOnce.Do(func() {
		h := sha256.New()
		for _, d := range s.Documents() {
			h.Write([]byte(d.Tag.String()))
			h.Write([]byte{0})
			data, _ := EncodeJSON(d.Tree)
			h.Write(data)
			h.Write([]byte{0})
		}
		s.version = hex.EncodeToString(h.Sum(nil))[:16]
	})
	return s.version
}

// Get returns the document for exactly tag.
func (s *Snapshot) Get(tag Tag) (Value, bool) {
	v, ok := s.docs[tag]
	return v, ok
}

// ResolveBest tries an exact match first, then the tag without its region.
func (s *Snapshot) ResolveBest(tag Tag) (Tag, Value, bool) {
	if v, ok := s.docs[tag]; ok {
		return tag, v, true
	}
	if tag.HasRegion() {
		base := tag.Base()
		if v, ok := s.docs[base]; ok {
			return base, v, true
		}
	}
	return Tag{}, nil, false
}

// Fallback picks the wildcard document: the configured fallback if loaded,
// otherwise the first region-less tag in canonical order, otherwise the
// first tag.
func (s *Snapshot) Fallback() (Tag, Value, bool) {
	if !s.fallback.IsZero() {
		if v, ok := s.docs[s.fallback]; ok {
			return s.fallback, v, true
		}
	}

	tags := s.Tags()
	if len(tags) == 0 {
		return Tag{}, nil, false
	}

	for _, t := range tags {
		if !t.HasRegion() {
			return t, s.docs[t], true
		}
	}
	return tags[0], s.docs[tags[0]], true
}

// Tags returns the loaded tags in canonical order.
func (s *Snapshot) Tags() []Tag {
	return slices.SortedFunc(maps.Keys(s.docs), compareTags)
}

// Documents returns the loaded documents in canonical tag order.
func (s *Snapshot) Documents() []Document {
	tags := s.Tags()
	docs := make([]Document, len(tags))
	for i, t := range tags {
		docs[i] = Document{Tag: t, Tree: s.docs[t]}
	}
	return docs
}

// Len returns the number of loaded documents.
func (s *Snapshot) Len() int {
	return len(s.docs)
}

// Generation returns the store generation this snapshot was taken at.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

var (
	_ FallbackCatalog = (*Store)(nil)
	_ FallbackCatalog = (*Snapshot)(nil)
)
