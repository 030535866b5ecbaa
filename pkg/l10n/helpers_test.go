package l10n_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

// tree decodes an inline YAML fixture.
func tree(t *testing.T, src string) l10n.Value {
	t.Helper()

	v, err := l10n.DecodeYAML([]byte(src))
	require.NoError(t, err)
	return v
}

// requireTree asserts that got equals the YAML fixture want.
func requireTree(t *testing.T, want string, got l10n.Value) {
	t.Helper()

	expected := tree(t, want)
	if !l10n.Equal(expected, got) {
		gotJSON, _ := l10n.EncodeJSON(got)
		wantJSON, _ := l10n.EncodeJSON(expected)
		require.Failf(t, "trees differ", "want %s\ngot  %s", wantJSON, gotJSON)
	}
}

func doc(t *testing.T, tag, src string) l10n.Document {
	t.Helper()
	return l10n.Document{Tag: l10n.MustParseTag(tag), Tree: tree(t, src)}
}
