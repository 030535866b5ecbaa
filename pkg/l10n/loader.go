package l10n

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// maxParallelDecodes limits how many files are decoded at once.
const maxParallelDecodes = 8

// LoadGlob decodes every file in fsys whose slash-separated path matches
// pattern and returns one document per file, ordered by path.
//
// Patterns use doublestar syntax: "**" matches any number of directories and
// "{a,b}" matches either alternative, so "l10n/**/*.{yml,json}" finds YAML
// and JSON files at any depth below l10n.
// Each file's language comes from its stem: "l10n/de-DE.yml" is de-DE.
// Files with the same tag (say en.yml and en.json) are all returned and the
// last one in path order wins once they are put into a Store.
func LoadGlob(ctx context.Context, fsys fs.FS, pattern string) ([]Document, error) {
	pattern = strings.TrimPrefix(path.Clean(pattern), "./")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	files, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("walking translations: %w", err)
	}
	slices.Sort(files)

	docs := make([]Document, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("reading %q: %w", name, err)
			}
			doc, err := DecodeFile(name, data)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}

// MatchPattern reports whether the slash-separated name matches pattern,
// using the same syntax as LoadGlob. Malformed patterns never match.
func MatchPattern(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// Load reads documents matching pattern from fsys into a new Store.
func Load(ctx context.Context, fsys fs.FS, pattern string, opts ...StoreOption) (*Store, error) {
	docs, err := LoadGlob(ctx, fsys, pattern)
	if err != nil {
		return nil, err
	}
	return NewStore(docs, opts...), nil
}
