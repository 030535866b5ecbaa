package server

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

// previewPage renders every leaf of the merged tree as a table. Values
// are shown as sanitized Markdown, the way templates would use them.
func previewPage(tr *l10n.Translator) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := tr.Language().String()

		if _, err := io.WriteString(w, `<!doctype html><html lang="`+templ.EscapeString(lang)+`"><head><meta charset="utf-8"><title>y10n preview</title></head><body>`); err != nil {
			return err
		}
		if err := previewHeader(tr.Tags()).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<table><thead><tr><th>Key</th><th>Value</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, kv := range l10n.Flatten(tr.Tree()) {
			if _, err := io.WriteString(w, `<tr><td><code>`+templ.EscapeString(kv.Key)+`</code></td><td>`); err != nil {
				return err
			}
			if kv.Value != "" {
				if _, err := io.WriteString(w, string(tr.Markdown(kv.Key))); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</td></tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></body></html>`)
		return err
	})
}

func previewHeader(tags []l10n.Tag) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(tags) == 0 {
			_, err := io.WriteString(w, `<h1>No matching languages</h1>`)
			return err
		}
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.String()
		}
		_, err := io.WriteString(w, `<h1>Merged from `+templ.EscapeString(strings.Join(names, " > "))+`</h1>`)
		return err
	})
}
