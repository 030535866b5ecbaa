package l10n

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a node of a translation tree. It is a closed set of variants:
// Null, Scalar, Sequence and *Mapping.
//
// Trees are treated as immutable once stored. Merging never modifies its
// inputs and returns a fresh tree that the caller owns and may modify.
//
// A nil Value means "absent" and is distinct from Null, which is a value
// that was present and explicitly empty.
type Value interface {
	Kind() Kind
	value()
}

// Null is an explicitly present null value.
type Null struct{}

// Scalar is a leaf string. Numbers and booleans from the source documents
// are kept in their textual form.
type Scalar string

// Sequence is an ordered list of values.
type Sequence []Value

func (Null) Kind() Kind     { return KindNull }
func (Scalar) Kind() Kind   { return KindScalar }
func (Sequence) Kind() Kind { return KindSequence }
func (*Mapping) Kind() Kind { return KindMapping }

func (Null) value()     {}
func (Scalar) value()   {}
func (Sequence) value() {}
func (*Mapping) value() {}

// MarshalJSON encodes Null as JSON null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Mapping is a string-keyed map that remembers insertion order.
// The zero value is not usable, create mappings with NewMapping.
type Mapping struct {
	values map[string]Value
	keys   []string
}

// NewMapping returns an empty mapping with room for n keys.
func NewMapping(n int) *Mapping {
	return &Mapping{
		values: make(map[string]Value, n),
		keys:   make([]string, 0, n),
	}
}

// Set stores v under key. An existing key keeps its position.
// Set is meant for building trees; do not call it on a tree that has
// been handed to a Store.
func (m *Mapping) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	return EncodeJSON(m)
}

// Equal reports whether a and b are deeply equal.
// Mapping key order is not significant.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Null:
		return true
	case Scalar:
		return av == b.(Scalar)
	case Sequence:
		bv := b.(Sequence)
		return slices.EqualFunc(av, bv, Equal)
	case *Mapping:
		bv := b.(*Mapping)
		if av.Len() != bv.Len() {
			return false
		}
		for k, v := range av.All() {
			other, ok := bv.Get(k)
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch tv := v.(type) {
	case Sequence:
		out := make(Sequence, len(tv))
		for i, item := range tv {
			out[i] = Clone(item)
		}
		return out
	case *Mapping:
		out := NewMapping(tv.Len())
		for k, item := range tv.All() {
			out.Set(k, Clone(item))
		}
		return out
	default:
		return v
	}
}

// ToAny converts v into plain Go values suitable for template engines:
// nil, string, []any and map[string]any.
func ToAny(v Value) any {
	switch tv := v.(type) {
	case nil, Null:
		return nil
	case Scalar:
		return string(tv)
	case Sequence:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = ToAny(item)
		}
		return out
	case *Mapping:
		out := make(map[string]any, tv.Len())
		for k, item := range tv.All() {
			out[k] = ToAny(item)
		}
		return out
	default:
		return nil
	}
}

// FromAny builds a tree from plain Go values, as produced by encoding/json
// or yaml.v3 when decoding into any. Keys of Go maps are added in sorted
// order, since the source carries no order of its own.
func FromAny(x any) (Value, error) {
	switch tv := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return tv, nil
	case string:
		return Scalar(tv), nil
	case bool:
		return Scalar(strconv.FormatBool(tv)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Scalar(fmt.Sprintf("%d", tv)), nil
	case float32:
		return Scalar(strconv.FormatFloat(float64(tv), 'g', -1, 32)), nil
	case float64:
		return Scalar(strconv.FormatFloat(tv, 'g', -1, 64)), nil
	case json.Number:
		return Scalar(tv.String()), nil
	case []string:
		out := make(Sequence, len(tv))
		for i, s := range tv {
			out[i] = Scalar(s)
		}
		return out, nil
	case []any:
		out := make(Sequence, len(tv))
		for i, item := range tv {
			v, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]string:
		out := NewMapping(len(tv))
		for _, k := range slices.Sorted(maps.Keys(tv)) {
			out.Set(k, Scalar(tv[k]))
		}
		return out, nil
	case map[string]any:
		out := NewMapping(len(tv))
		for _, k := range slices.Sorted(maps.Keys(tv)) {
			v, err := FromAny(tv[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out.Set(k, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, x)
	}
}
