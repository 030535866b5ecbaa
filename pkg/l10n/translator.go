package l10n

import "slices"

// Translator reads strings from one merged tree. It is what request
// handlers and templates use after the request's languages are resolved.
type Translator struct {
	tree    Value
	missing func(tags []Tag, key string)
	tags    []Tag
}

// NewTranslator creates a Translator over tree. tags lists the languages
// the tree was merged from, most preferred first. missing, if not nil, is
// called for keys that do not resolve to a string.
func NewTranslator(tree Value, tags []Tag, missing func(tags []Tag, key string)) *Translator {
	if tree == nil {
		tree = NewMapping(0)
	}
	return &Translator{tree: tree, tags: tags, missing: missing}
}

// T returns the string at the dotted key with placeholders replaced.
// Returns the key itself if there is no string at that path.
func (t *Translator) T(key string, placeholders ...M) string {
	s, ok := LookupString(t.tree, key)
	if !ok {
		if t.missing != nil {
			t.missing(t.Tags(), key)
		}
		return key
	}
	return ReplacePlaceholders(s, mergePlaceholders(placeholders))
}

// TranslateMessage translates a key with a single placeholder map.
// It fits callbacks of the form func(key string, values map[string]any) string.
func (t *Translator) TranslateMessage(key string, values map[string]any) string {
	return t.T(key, values)
}

// Value returns the subtree at the dotted key.
func (t *Translator) Value(key string) (Value, bool) {
	return Lookup(t.tree, key)
}

// Has reports whether the dotted key exists.
func (t *Translator) Has(key string) bool {
	_, ok := Lookup(t.tree, key)
	return ok
}

// Tree returns the merged tree.
func (t *Translator) Tree() Value {
	return t.tree
}

// Map returns the merged tree as plain Go values. A tree that is not a
// mapping yields an empty map.
func (t *Translator) Map() map[string]any {
	if m, ok := ToAny(t.tree).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Tags returns the languages the tree was merged from, most preferred first.
func (t *Translator) Tags() []Tag {
	return slices.Clone(t.tags)
}

// Language returns the most preferred matched language, or the zero Tag
// when nothing matched.
func (t *Translator) Language() Tag {
	if len(t.tags) == 0 {
		return Tag{}
	}
	return t.tags[0]
}
