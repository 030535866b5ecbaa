package source_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/l10n"
	"github.com/dmitrymomot/y10n/pkg/source"
)

func tags(docs []l10n.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Tag.String()
	}
	return out
}

func TestFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"l10n/en.yml":      {Data: []byte("greeting: hello")},
		"l10n/de/de.yml":   {Data: []byte("greeting: hallo")},
		"l10n/ignored.txt": {Data: []byte("x")},
	}

	src := source.FS(fsys, "l10n/**/*.yml")
	require.Equal(t, "fs:l10n/**/*.yml", src.Name())

	docs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"de", "en"}, tags(docs))
}

func TestDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "en.yml", "greeting: hello"))
	require.NoError(t, writeFile(dir, "pt_BR.json", `{"greeting": "olá"}`))

	docs, err := source.Dir(dir, "*.*").Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"en", "pt-BR"}, tags(docs))
}

func TestMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := source.FS(fstest.MapFS{
		"en.yml": {Data: []byte("greeting: hello\nfarewell: bye")},
	}, "*.yml")
	override := source.Func{Label: "db", Fn: func(context.Context) ([]l10n.Document, error) {
		v, err := l10n.DecodeYAML([]byte("greeting: hi"))
		if err != nil {
			return nil, err
		}
		return []l10n.Document{{Tag: l10n.MustParseTag("en"), Tree: v}}, nil
	}}

	src := source.Multi(base, override)
	require.Equal(t, "fs:*.yml+db", src.Name())

	docs, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// The later source wins once the documents are stored.
	store := l10n.NewStore(docs)
	got, ok := store.Get(l10n.MustParseTag("en"))
	require.True(t, ok)
	s, _ := l10n.LookupString(got, "greeting")
	require.Equal(t, "hi", s)
	_, ok = l10n.LookupString(got, "farewell")
	require.False(t, ok)

	boom := errors.New("boom")
	failing := source.Func{Label: "broken", Fn: func(context.Context) ([]l10n.Document, error) {
		return nil, boom
	}}
	_, err = source.Multi(base, failing).Load(ctx)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "broken")
}
