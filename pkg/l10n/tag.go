package l10n

import (
	"strings"
)

// Tag is a normalized language identifier made of a primary language subtag
// and an optional region subtag, e.g. "en" or "de-DE".
//
// Tag is a comparable value type: two tags are equal iff both subtags match
// after normalization (primary lowercase, region uppercase).
type Tag struct {
	primary string
	region  string
}

// Wildcard is the "*" tag of a preference list. It matches whichever
// document the catalog designates as its fallback.
var Wildcard = Tag{primary: "*"}

// ParseTag parses a language tag such as "en", "de-DE", "pt_br" or "zh-Hant-TW".
//
// Both '-' and '_' separate subtags. A four letter script subtag is skipped,
// the region is the first two letter or three digit subtag that follows the
// primary one, any other subtag is ignored.
func ParseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if s == "*" {
		return Wildcard, nil
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 || !isPrimarySubtag(parts[0]) {
		return Tag{}, ErrInvalidTag
	}

	t := Tag{primary: strings.ToLower(parts[0])}
	for _, p := range parts[1:] {
		if isRegionSubtag(p) {
			t.region = strings.ToUpper(p)
			break
		}
	}

	return t, nil
}

// MustParseTag is like ParseTag but panics on invalid input.
// Intended for constants and tests.
func MustParseTag(s string) Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err.Error() + ": " + s)
	}
	return t
}

// Primary returns the lowercase language subtag.
func (t Tag) Primary() string { return t.primary }

// Region returns the uppercase region subtag or an empty string.
func (t Tag) Region() string { return t.region }

// HasRegion reports whether the tag carries a region subtag,
// i.e. whether it is more specific than its Base.
func (t Tag) HasRegion() bool { return t.region != "" }

// Base returns the tag with its region stripped.
func (t Tag) Base() Tag { return Tag{primary: t.primary} }

// IsZero reports whether t is the zero Tag.
func (t Tag) IsZero() bool { return t.primary == "" }

// IsWildcard reports whether t is the "*" tag.
func (t Tag) IsWildcard() bool { return t.primary == "*" }

// String returns the canonical form, e.g. "de-DE".
func (t Tag) String() string {
	if t.region == "" {
		return t.primary
	}
	return t.primary + "-" + t.region
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// compareTags orders tags by their canonical string form.
func compareTags(a, b Tag) int {
	return strings.Compare(a.String(), b.String())
}

func isPrimarySubtag(s string) bool {
	if len(s) == 0 || len(s) > 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(s[i]) {
			return false
		}
	}
	return true
}

func isRegionSubtag(s string) bool {
	switch len(s) {
	case 2:
		return isASCIILetter(s[0]) && isASCIILetter(s[1])
	case 3:
		return isASCIIDigit(s[0]) && isASCIIDigit(s[1]) && isASCIIDigit(s[2])
	default:
		return false
	}
}

func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }
