package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

// Source produces the complete set of translation documents.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	Load(ctx context.Context) ([]l10n.Document, error)
}

// Func adapts a function to Source.
type Func struct {
	Fn    func(ctx context.Context) ([]l10n.Document, error)
	Label string
}

func (f Func) Name() string { return f.Label }

func (f Func) Load(ctx context.Context) ([]l10n.Document, error) {
	return f.Fn(ctx)
}

type fsSource struct {
	fsys    fs.FS
	name    string
	pattern string
}

// FS loads files matching pattern from fsys, see l10n.LoadGlob.
func FS(fsys fs.FS, pattern string) Source {
	return &fsSource{fsys: fsys, pattern: pattern, name: "fs:" + pattern}
}

// Dir loads files matching pattern below dir on the local disk.
func Dir(dir, pattern string) Source {
	return &fsSource{fsys: os.DirFS(dir), pattern: pattern, name: "dir:" + dir + "/" + pattern}
}

func (s *fsSource) Name() string { return s.name }

func (s *fsSource) Load(ctx context.Context) ([]l10n.Document, error) {
	return l10n.LoadGlob(ctx, s.fsys, s.pattern)
}

type multi []Source

// Multi concatenates the documents of sources in order. The first failing
// source aborts the load.
func Multi(sources ...Source) Source {
	return multi(sources)
}

func (m multi) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (m multi) Load(ctx context.Context) ([]l10n.Document, error) {
	var docs []l10n.Document
	for _, s := range m {
		part, err := s.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		docs = append(docs, part...)
	}
	return docs, nil
}
