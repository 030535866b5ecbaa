package l10n

import (
	"slices"
	"strconv"
	"strings"
)

// maxPreferenceLength prevents DoS attacks through oversized Accept-Language headers.
const maxPreferenceLength = 4096

// Preference is one entry of a ranked language preference list.
type Preference struct {
	Tag Tag
	// Weight is the quality value in [0, 1]. Zero means "not acceptable".
	Weight float64
}

// Acceptable reports whether the preference may be selected.
func (p Preference) Acceptable() bool {
	return p.Weight > 0
}

// String formats the preference in header form, e.g. "de;q=0.5".
func (p Preference) String() string {
	if p.Weight == 1 {
		return p.Tag.String()
	}
	return p.Tag.String() + ";q=" + strconv.FormatFloat(p.Weight, 'f', -1, 64)
}

// ParsePreferences parses an Accept-Language style list such as
// "de-DE,de;q=0.9,en;q=0.5,*;q=0.1" into preferences ranked by weight.
//
// Entries with a malformed tag or weight (not a number, or outside [0, 1])
// are dropped individually, the rest of the list is still used. Entries with
// weight 0 are kept so callers can see them, Localize never selects them.
// Equal weights keep their input order, except that a wildcard ranks after
// every explicit tag of the same weight.
func ParsePreferences(raw string) []Preference {
	if len(raw) > maxPreferenceLength {
		cut := raw[:maxPreferenceLength]
		// Drop the entry split by the cut, "de;q=0.9" must not become "de;q=0".
		if raw[maxPreferenceLength] != ',' {
			if i := strings.LastIndexByte(cut, ','); i >= 0 {
				cut = cut[:i]
			}
		}
		raw = cut
	}

	var prefs []Preference

	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if p, ok := parsePreference(part); ok {
			prefs = append(prefs, p)
		}
	}

	slices.SortStableFunc(prefs, comparePreferences)

	return prefs
}

func parsePreference(entry string) (Preference, bool) {
	tagPart, params, _ := strings.Cut(entry, ";")

	tag, err := ParseTag(tagPart)
	if err != nil {
		return Preference{}, false
	}

	weight := 1.0
	for param := range strings.SplitSeq(params, ";") {
		name, val, found := strings.Cut(strings.TrimSpace(param), "=")
		if !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}

		q, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if !found || err != nil || !(q >= 0 && q <= 1) {
			return Preference{}, false
		}
		weight = q
	}

	return Preference{Tag: tag, Weight: weight}, true
}

func comparePreferences(a, b Preference) int {
	switch {
	case a.Weight > b.Weight:
		return -1
	case a.Weight < b.Weight:
		return 1
	case a.Tag.IsWildcard() && !b.Tag.IsWildcard():
		return 1
	case !a.Tag.IsWildcard() && b.Tag.IsWildcard():
		return -1
	default:
		return 0
	}
}

// FormatPreferences renders preferences back into header form.
func FormatPreferences(prefs []Preference) string {
	parts := make([]string, len(prefs))
	for i, p := range prefs {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
