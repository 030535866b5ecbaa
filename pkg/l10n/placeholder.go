package l10n

import (
	"fmt"
	"strings"
)

// M is a map of placeholder values.
type M map[string]any

// ReplacePlaceholders replaces {{name}} placeholders in the template with
// values from the map. Whitespace inside the braces is ignored, so
// {{ name }} works too. Unknown placeholders are left unchanged.
//
// Example:
//
//	template: "Hello there {{who}}!"
//	placeholders: M{"who": "Foo"}
//	returns: "Hello there Foo!"
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(rest[:start])
		name := strings.TrimSpace(rest[start+2 : end])
		if value, ok := placeholders[name]; ok {
			b.WriteString(fmt.Sprint(value))
		} else {
			b.WriteString(rest[start : end+2])
		}
		rest = rest[end+2:]
	}
	b.WriteString(rest)

	return b.String()
}

func mergePlaceholders(placeholders []M) M {
	switch len(placeholders) {
	case 0:
		return nil
	case 1:
		return placeholders[0]
	}

	merged := make(M)
	for _, p := range placeholders {
		for k, v := range p {
			merged[k] = v
		}
	}
	return merged
}

// pairsToM turns template arguments "who", user, "count", 3 into an M.
// A trailing key without a value is ignored.
func pairsToM(args []any) M {
	if len(args) < 2 {
		return nil
	}
	m := make(M, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		m[fmt.Sprint(args[i])] = args[i+1]
	}
	return m
}
