package l10n_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

func TestLoadGlob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fsys := os.DirFS("testdata")

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "yaml files in one directory", pattern: "l10n/*.yml", want: []string{"de", "en"}},
		{name: "all formats", pattern: "l10n/*.[jy]*", want: []string{"de-DE", "de", "en"}},
		{name: "recursive", pattern: "l10n/**/*.y*ml", want: []string{"de", "en", "fr"}},
		{name: "alternatives", pattern: "l10n/**/{en,fr}.{yml,yaml}", want: []string{"en", "fr"}},
		{name: "no matches", pattern: "l10n/*.json5", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			docs, err := l10n.LoadGlob(ctx, fsys, tt.pattern)
			require.NoError(t, err)

			got := make([]string, len(docs))
			for i, d := range docs {
				got[i] = d.Tag.String()
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadGlob_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fsys := os.DirFS("testdata")

	_, err := l10n.LoadGlob(ctx, fsys, "l10n/[.yml")
	require.ErrorIs(t, err, l10n.ErrInvalidPattern)

	_, err = l10n.LoadGlob(ctx, fsys, "l10n/{en,de.yml")
	require.ErrorIs(t, err, l10n.ErrInvalidPattern)

	_, err = l10n.LoadGlob(ctx, fsys, "broken/*.yml")
	require.ErrorIs(t, err, l10n.ErrInvalidFile)

	_, err = l10n.LoadGlob(ctx, fsys, "badname/*.yml")
	require.ErrorIs(t, err, l10n.ErrInvalidFile)

	// Files that do not match an extension are reported.
	_, err = l10n.LoadGlob(ctx, fsys, "l10n/*")
	require.ErrorIs(t, err, l10n.ErrUnsupportedFormat)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l10n.LoadGlob(canceled, fsys, "l10n/*.yml")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"l10n/en.yml":   {Data: []byte("greeting: hello")},
		"l10n/de.yml":   {Data: []byte("greeting: hallo\nfarewell: tschüss")},
		"l10n/de.json":  {Data: []byte(`{"greeting": "moin"}`)},
		"other/fr.yml":  {Data: []byte("greeting: bonjour")},
		"l10n/notes.md": {Data: []byte("# notes")},
	}

	store, err := l10n.Load(context.Background(), fsys, "l10n/*.y*ml",
		l10n.WithFallback(l10n.MustParseTag("en")),
	)
	require.NoError(t, err)
	require.Equal(t, []l10n.Tag{l10n.MustParseTag("de"), l10n.MustParseTag("en")}, store.Tags())

	got := l10n.Localize(l10n.ParsePreferences("de-DE,en;q=0.5"), store)
	requireTree(t, "{greeting: hallo, farewell: tschüss}", got)

	// de.json sorts before de.yml, so the YAML document wins.
	store, err = l10n.Load(context.Background(), fsys, "l10n/de.*")
	require.NoError(t, err)
	de, ok := store.Get(l10n.MustParseTag("de"))
	require.True(t, ok)
	requireTree(t, "{greeting: hallo, farewell: tschüss}", de)
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{pattern: "*.yml", name: "en.yml", want: true},
		{pattern: "*.yml", name: "l10n/en.yml", want: false},
		{pattern: "l10n/**/*.yml", name: "l10n/en.yml", want: true},
		{pattern: "l10n/**/*.yml", name: "l10n/a/b/en.yml", want: true},
		{pattern: "**/*.yml", name: "en.yml", want: true},
		{pattern: "l10n/**", name: "l10n/a/en.yml", want: true},
		{pattern: "l10n/**/en.yml", name: "other/en.yml", want: false},
		{pattern: "l10n/[", name: "l10n/[", want: false},
		{pattern: "l10n/*.{yml,json}", name: "l10n/en.json", want: true},
		{pattern: "l10n/*.{yml,json}", name: "l10n/en.toml", want: false},
		{pattern: "**/*.{yml,yaml}", name: "a/b/de.yaml", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, l10n.MatchPattern(tt.pattern, tt.name))
		})
	}
}
