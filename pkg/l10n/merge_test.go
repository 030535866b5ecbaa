package l10n_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		override string
		want     string
	}{
		{
			name:     "override wins at leaves",
			base:     "k: a",
			override: "k: b",
			want:     "k: b",
		},
		{
			name:     "union of keys",
			base:     "a: 1",
			override: "b: 2",
			want:     "{a: 1, b: 2}",
		},
		{
			name:     "recursive override",
			base:     "a: {x: 1, y: 2}",
			override: "a: {y: 3}",
			want:     "a: {x: 1, y: 3}",
		},
		{
			name:     "absent key inherits",
			base:     "a: 1",
			override: "{}",
			want:     "a: 1",
		},
		{
			name:     "present null overrides",
			base:     "a: 1",
			override: "a: null",
			want:     "a: null",
		},
		{
			name:     "scalar replaces mapping",
			base:     "a: {x: 1}",
			override: "a: flat",
			want:     "a: flat",
		},
		{
			name:     "mapping replaces scalar",
			base:     "a: flat",
			override: "a: {x: 1}",
			want:     "a: {x: 1}",
		},
		{
			name:     "sequences are atomic",
			base:     "a: [1, 2, 3]",
			override: "a: [9]",
			want:     "a: [9]",
		},
		{
			name:     "deeply nested",
			base:     "a: {b: {c: {d: 1, e: 2}}}",
			override: "a: {b: {c: {e: 3, f: 4}}}",
			want:     "a: {b: {c: {d: 1, e: 3, f: 4}}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := l10n.Merge(tree(t, tt.base), tree(t, tt.override))
			requireTree(t, tt.want, got)
		})
	}
}

func TestMerge_Absent(t *testing.T) {
	t.Parallel()

	base := tree(t, "a: 1")
	kept := l10n.Merge(base, nil)
	requireTree(t, "a: 1", kept)
	require.NotSame(t, base.(*l10n.Mapping), kept.(*l10n.Mapping))

	got := l10n.Merge(nil, tree(t, "b: 2"))
	requireTree(t, "b: 2", got)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	base := tree(t, "a: {x: 1}\nlist: [1]")
	override := tree(t, "a: {y: 2}\nlist: [2]")

	_ = l10n.NewMerger(l10n.WithSequencePolicy(l10n.SequenceAppend)).Merge(base, override)

	requireTree(t, "a: {x: 1}\nlist: [1]", base)
	requireTree(t, "a: {y: 2}\nlist: [2]", override)
}

func TestMerge_ResultOwnedByCaller(t *testing.T) {
	t.Parallel()

	base := tree(t, "only_base: {x: 1}\nshared: {a: 1}\nlist: [{k: v}]")
	override := tree(t, "only_override: {y: 2}\nshared: {b: 2}")

	for _, m := range []*l10n.Merger{
		l10n.NewMerger(),
		l10n.NewMerger(l10n.WithSequencePolicy(l10n.SequenceAppend)),
	} {
		got := m.Merge(base, override).(*l10n.Mapping)
		for _, key := range []string{"only_base", "only_override", "shared"} {
			sub, ok := got.Get(key)
			require.True(t, ok)
			sub.(*l10n.Mapping).Set("mutated", l10n.Scalar("yes"))
		}
		list, _ := got.Get("list")
		list.(l10n.Sequence)[0].(*l10n.Mapping).Set("k", l10n.Scalar("changed"))
		got.Set("root", l10n.Scalar("added"))
	}

	single := l10n.MergeAll(base).(*l10n.Mapping)
	single.Set("only_base", l10n.Scalar("replaced"))

	requireTree(t, "only_base: {x: 1}\nshared: {a: 1}\nlist: [{k: v}]", base)
	requireTree(t, "only_override: {y: 2}\nshared: {b: 2}", override)
}

func TestMerge_KeyOrder(t *testing.T) {
	t.Parallel()

	got := l10n.Merge(tree(t, "b: 1\na: 1"), tree(t, "c: 2\na: 2"))
	require.Equal(t, []string{"b", "a", "c"}, got.(*l10n.Mapping).Keys())
}

func TestMerger_SequenceAppend(t *testing.T) {
	t.Parallel()

	m := l10n.NewMerger(l10n.WithSequencePolicy(l10n.SequenceAppend))

	got := m.Merge(tree(t, "a: [1, 2]"), tree(t, "a: [3]"))
	requireTree(t, "a: [1, 2, 3]", got)

	// Only two sequences are appended, anything else still overrides.
	got = m.Merge(tree(t, "a: x"), tree(t, "a: [3]"))
	requireTree(t, "a: [3]", got)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	t.Run("no values yields empty mapping", func(t *testing.T) {
		t.Parallel()

		got := l10n.MergeAll()
		require.Equal(t, l10n.KindMapping, got.Kind())
		require.Equal(t, 0, got.(*l10n.Mapping).Len())
	})

	t.Run("identity", func(t *testing.T) {
		t.Parallel()

		for _, src := range []string{"a: {b: [1, 2]}", "just a string", "[1, 2]", "~"} {
			v := tree(t, src)
			require.True(t, l10n.Equal(v, l10n.MergeAll(v)), src)
		}
	})

	t.Run("folds left to right", func(t *testing.T) {
		t.Parallel()

		got := l10n.MergeAll(tree(t, "a: 1\nb: 1\nc: 1"), tree(t, "b: 2\nc: 2"), tree(t, "c: 3"))
		requireTree(t, "{a: 1, b: 2, c: 3}", got)
	})
}
