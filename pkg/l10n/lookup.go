package l10n

import (
	"strconv"
	"strings"
)

// Lookup walks a dotted path such as "errors.validation.required" from v.
// Numeric segments index into sequences ("steps.0.title"). A key that
// itself contains dots is matched before the path is split further.
// The empty path returns v.
func Lookup(v Value, path string) (Value, bool) {
	if v == nil {
		return nil, false
	}
	if path == "" {
		return v, true
	}

	switch tv := v.(type) {
	case *Mapping:
		if item, ok := tv.Get(path); ok {
			return item, true
		}
		head, rest, _ := strings.Cut(path, ".")
		item, ok := tv.Get(head)
		if !ok {
			return nil, false
		}
		return Lookup(item, rest)
	case Sequence:
		head, rest, _ := strings.Cut(path, ".")
		i, err := strconv.Atoi(head)
		if err != nil || i < 0 || i >= len(tv) {
			return nil, false
		}
		return Lookup(tv[i], rest)
	default:
		return nil, false
	}
}

// LookupString returns the scalar at path.
func LookupString(v Value, path string) (string, bool) {
	item, ok := Lookup(v, path)
	if !ok {
		return "", false
	}
	s, ok := item.(Scalar)
	return string(s), ok
}

// Flatten returns every scalar leaf of v keyed by its dotted path, in tree
// order. Null leaves are reported with an empty string.
func Flatten(v Value) []KeyValue {
	var out []KeyValue
	flatten(v, "", &out)
	return out
}

// KeyValue is a flattened leaf.
type KeyValue struct {
	Key   string
	Value string
}

func flatten(v Value, prefix string, out *[]KeyValue) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	switch tv := v.(type) {
	case *Mapping:
		for k, item := range tv.All() {
			flatten(item, join(k), out)
		}
	case Sequence:
		for i, item := range tv {
			flatten(item, join(strconv.Itoa(i)), out)
		}
	case Scalar:
		*out = append(*out, KeyValue{Key: prefix, Value: string(tv)})
	case Null:
		*out = append(*out, KeyValue{Key: prefix})
	}
}
