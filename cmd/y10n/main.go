// Command y10n merges, queries and serves hierarchical translations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/dmitrymomot/y10n/internal/server"
	"github.com/dmitrymomot/y10n/pkg/l10n"
)

var errKeyNotFound = errors.New("key not found")

// Globals are the flags shared by every command.
type Globals struct {
	Dir       string `name:"dir" short:"d" help:"Translations directory" default:"./l10n" type:"path" env:"L10N_DIR"`
	Pattern   string `help:"Glob selecting translation files, relative to --dir" default:"**/*.yml" env:"L10N_PATTERN"`
	Fallback  string `help:"Language used for the * preference" default:"en" env:"L10N_FALLBACK"`
	Sequences string `help:"How sequences merge" enum:"replace,append" default:"replace" env:"L10N_SEQUENCES"`

	out io.Writer `kong:"-"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Merge     MergeCmd     `cmd:"" help:"Print the tree merged for a preference list"`
	Lookup    LookupCmd    `cmd:"" help:"Print one translation by dotted key"`
	Languages LanguagesCmd `cmd:"" help:"List loaded languages"`
	Serve     ServeCmd     `cmd:"" help:"Run the HTTP server"`
}

func (g *Globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *Globals) load(ctx context.Context) (*l10n.Store, error) {
	var opts []l10n.StoreOption
	if g.Fallback != "" {
		tag, err := l10n.ParseTag(g.Fallback)
		if err != nil {
			return nil, fmt.Errorf("--fallback: %w", err)
		}
		opts = append(opts, l10n.WithFallback(tag))
	}
	return l10n.Load(ctx, os.DirFS(g.Dir), g.Pattern, opts...)
}

func (g *Globals) merger() *l10n.Merger {
	if g.Sequences == "append" {
		return l10n.NewMerger(l10n.WithSequencePolicy(l10n.SequenceAppend))
	}
	return l10n.NewMerger()
}

func (g *Globals) localizer(ctx context.Context) (*l10n.Localizer, error) {
	store, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return l10n.NewLocalizer(store, l10n.WithMerger(g.merger())), nil
}

// MergeCmd prints the merged tree.
type MergeCmd struct {
	Lang   string `arg:"" optional:"" help:"Preference list, e.g. \"de-DE,de;q=0.9,en;q=0.5\"" default:"*"`
	Format string `short:"f" help:"Output format" enum:"yaml,json" default:"yaml"`
}

func (c *MergeCmd) Run(g *Globals) error {
	ctx := context.Background()
	loc, err := g.localizer(ctx)
	if err != nil {
		return err
	}
	return encode(g.stdout(), loc.LocalizeHeader(ctx, c.Lang), c.Format)
}

// LookupCmd prints one key.
type LookupCmd struct {
	Key    string            `arg:"" help:"Dotted key, e.g. nav.home"`
	Lang   string            `short:"l" help:"Preference list" default:"*"`
	Set    map[string]string `short:"s" help:"Placeholder value, name=value"`
	Format string            `short:"f" help:"Output format for subtrees" enum:"yaml,json" default:"yaml"`
}

func (c *LookupCmd) Run(g *Globals) error {
	ctx := context.Background()
	loc, err := g.localizer(ctx)
	if err != nil {
		return err
	}

	tr := loc.Translator(ctx, c.Lang)
	v, ok := tr.Value(c.Key)
	if !ok {
		return fmt.Errorf("%w: %s", errKeyNotFound, c.Key)
	}
	if _, isScalar := v.(l10n.Scalar); !isScalar {
		return encode(g.stdout(), v, c.Format)
	}

	placeholders := make(l10n.M, len(c.Set))
	for k, val := range c.Set {
		placeholders[k] = val
	}
	_, err = fmt.Fprintln(g.stdout(), tr.T(c.Key, placeholders))
	return err
}

// LanguagesCmd lists the loaded languages with their names.
type LanguagesCmd struct{}

func (c *LanguagesCmd) Run(g *Globals) error {
	store, err := g.load(context.Background())
	if err != nil {
		return err
	}

	fallback, _, _ := store.Fallback()
	for _, tag := range store.Tags() {
		info := server.Describe(tag, tag == fallback)
		marker := ""
		if info.Fallback {
			marker = "\t(fallback)"
		}
		if _, err := fmt.Fprintf(g.stdout(), "%s\t%s\t%s%s\n", info.Tag, info.Name, info.EnglishName, marker); err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, v l10n.Value, format string) error {
	var (
		out []byte
		err error
	)
	if strings.EqualFold(format, "json") {
		out, err = l10n.EncodeJSON(v)
		out = append(out, '\n')
	} else {
		out, err = l10n.EncodeYAML(v)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("y10n"),
		kong.Description("Hierarchical localization by preference-ordered deep merge"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
