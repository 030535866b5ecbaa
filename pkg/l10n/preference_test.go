package l10n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

func TestParsePreferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "single tag", input: "en", want: "en"},
		{name: "sorted by weight", input: "en;q=0.5,de", want: "de,en;q=0.5"},
		{name: "stable for equal weights", input: "fr;q=0.8,de;q=0.8,en", want: "en,fr;q=0.8,de;q=0.8"},
		{name: "wildcard after explicit tags of equal weight", input: "*,de", want: "de,*"},
		{name: "weighted wildcard ranks by weight", input: "de;q=0.1,*;q=0.5", want: "*;q=0.5,de;q=0.1"},
		{name: "malformed weight dropped", input: "de;q=abc,en", want: "en"},
		{name: "weight above one dropped", input: "de;q=1.5,en", want: "en"},
		{name: "negative weight dropped", input: "de;q=-0.1,en", want: "en"},
		{name: "missing weight value dropped", input: "de;q,en", want: "en"},
		{name: "invalid tag dropped", input: "12,en", want: "en"},
		{name: "zero weight kept", input: "de;q=0,en", want: "en,de;q=0"},
		{name: "whitespace tolerated", input: " de-DE ; q=0.9 , en ", want: "en,de-DE;q=0.9"},
		{name: "uppercase q", input: "de;Q=0.3", want: "de;q=0.3"},
		{name: "other params ignored", input: "de;level=1;q=0.4", want: "de;q=0.4"},
		{name: "empty entries skipped", input: ",,en,,", want: "en"},
		{name: "browser header", input: "de-DE,de;q=0.9,en;q=0.8,*;q=0.1", want: "de-DE,de;q=0.9,en;q=0.8,*;q=0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := l10n.ParsePreferences(tt.input)
			require.Equal(t, tt.want, l10n.FormatPreferences(got))
		})
	}
}

func TestParsePreferences_Weights(t *testing.T) {
	t.Parallel()

	prefs := l10n.ParsePreferences("de;q=abc,en")
	require.Len(t, prefs, 1)
	require.Equal(t, l10n.MustParseTag("en"), prefs[0].Tag)
	require.InDelta(t, 1.0, prefs[0].Weight, 0)

	prefs = l10n.ParsePreferences("de;q=0")
	require.Len(t, prefs, 1)
	require.False(t, prefs[0].Acceptable())
}

func TestParsePreferences_OversizedInput(t *testing.T) {
	t.Parallel()

	raw := "en," + strings.Repeat("de;q=0.5,", 2000)
	prefs := l10n.ParsePreferences(raw)
	require.NotEmpty(t, prefs)
	require.Equal(t, "en", prefs[0].Tag.String())
	require.Less(t, len(prefs), 2001)
}

func TestParsePreferences_OversizedInputSplitEntry(t *testing.T) {
	t.Parallel()

	// The cut at the length limit lands inside the last entry, right after "q=0".
	raw := "de, " + strings.Repeat("en;q=0.5,", 454) + "de;q=0.9"
	require.Greater(t, len(raw), 4096)
	require.Equal(t, "de;q=0", raw[4090:4096])

	prefs := l10n.ParsePreferences(raw)
	require.NotEmpty(t, prefs)
	require.Equal(t, "de", prefs[0].Tag.String())
	for _, p := range prefs {
		if p.Tag.String() == "de" {
			require.Positive(t, p.Weight)
		}
	}

	got := l10n.Localize(prefs, greetingStore(t))
	requireTree(t, "{greeting: hallo, farewell: tschüss}", got)
}
