package l10n

// SequencePolicy controls how two sequences at the same path are merged.
type SequencePolicy uint8

const (
	// SequenceReplace treats sequences as atomic: the override wins outright.
	SequenceReplace SequencePolicy = iota
	// SequenceAppend concatenates the base items and the override items.
	SequenceAppend
)

// Merger deep-merges trees. The zero value is ready to use and treats
// sequences as atomic.
type Merger struct {
	sequences SequencePolicy
}

// MergeOption configures a Merger.
type MergeOption func(*Merger)

// WithSequencePolicy sets the sequence merge policy.
// Default: SequenceReplace.
func WithSequencePolicy(p SequencePolicy) MergeOption {
	return func(m *Merger) {
		m.sequences = p
	}
}

// NewMerger creates a Merger with the given options.
func NewMerger(opts ...MergeOption) *Merger {
	m := &Merger{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMerger = &Merger{}

// Merge deep-merges override onto base with the default Merger.
func Merge(base, override Value) Value {
	return defaultMerger.Merge(base, override)
}

// MergeAll folds values left to right with the default Merger.
func MergeAll(values ...Value) Value {
	return defaultMerger.MergeAll(values...)
}

// Merge deep-merges override onto base and returns the result.
//
// When both sides are mappings the result holds the union of their keys,
// recursing into keys present on both sides. In every other case the
// override wins at that path, unless both are sequences and the merger
// appends sequences. A nil override means absent and yields base; Null is a
// present value and replaces base.
//
// Neither input is modified and the result shares no mappings or
// sequences with them, so the caller owns it. Base keys keep their order,
// keys only found in override follow in override order.
func (m *Merger) Merge(base, override Value) Value {
	if override == nil {
		return Clone(base)
	}

	switch ov := override.(type) {
	case *Mapping:
		if bv, ok := base.(*Mapping); ok {
			return m.mergeMappings(bv, ov)
		}
	case Sequence:
		if bv, ok := base.(Sequence); ok && m.sequences == SequenceAppend {
			out := make(Sequence, 0, len(bv)+len(ov))
			for _, item := range bv {
				out = append(out, Clone(item))
			}
			for _, item := range ov {
				out = append(out, Clone(item))
			}
			return out
		}
	case Scalar, Null:
	}

	return Clone(override)
}

func (m *Merger) mergeMappings(base, override *Mapping) *Mapping {
	out := NewMapping(base.Len() + override.Len())

	for k, bv := range base.All() {
		if ov, ok := override.Get(k); ok {
			out.Set(k, m.Merge(bv, ov))
			continue
		}
		out.Set(k, Clone(bv))
	}

	for k, ov := range override.All() {
		if _, ok := base.Get(k); !ok {
			out.Set(k, Clone(ov))
		}
	}

	return out
}

// MergeAll folds values left to right, each value overriding the
// accumulated result. No values yield an empty mapping, a single value is
// returned as a deep copy.
func (m *Merger) MergeAll(values ...Value) Value {
	switch len(values) {
	case 0:
		return NewMapping(0)
	case 1:
		return Clone(values[0])
	}

	acc := values[0]
	for _, v := range values[1:] {
		acc = m.Merge(acc, v)
	}
	return acc
}
