package l10n

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/y10n/pkg/markdown"
	"github.com/dmitrymomot/y10n/pkg/sanitizer"
)

// FuncMap returns html/template helpers bound to the translator:
//
//	{{t "greeting" "who" .User}}      escaped text
//	{{thtml "terms"}}                 sanitized inline markup
//	{{tmd "intro"}}                   Markdown rendered to sanitized HTML
//	{{range tv "steps"}}...{{end}}    raw subtree as plain Go values
//
// Placeholder arguments are key/value pairs.
func (t *Translator) FuncMap() template.FuncMap {
	return template.FuncMap{
		"t": func(key string, args ...any) string {
			return t.T(key, pairsToM(args))
		},
		"thtml": func(key string, args ...any) template.HTML {
			return t.HTML(key, pairsToM(args))
		},
		"tmd": func(key string, args ...any) template.HTML {
			return t.Markdown(key, pairsToM(args))
		},
		"tv": func(key string) any {
			v, ok := t.Value(key)
			if !ok {
				return nil
			}
			return ToAny(v)
		},
	}
}

// HTML returns the translation as sanitized markup that html/template
// does not escape again.
func (t *Translator) HTML(key string, placeholders ...M) template.HTML {
	return template.HTML(sanitizer.Markup(t.T(key, placeholders...))) //nolint:gosec // sanitized
}

// Markdown renders the translation as Markdown. A single paragraph is
// rendered inline. Rendering failures fall back to the escaped text.
func (t *Translator) Markdown(key string, placeholders ...M) template.HTML {
	s := t.T(key, placeholders...)
	out, err := markdown.RenderInline(s)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(s)) //nolint:gosec // escaped
	}
	return template.HTML(sanitizer.Markup(out)) //nolint:gosec // sanitized
}

// Component returns a templ component writing the escaped translation.
func (t *Translator) Component(key string, placeholders ...M) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(t.T(key, placeholders...)))
		return err
	})
}

// HTMLComponent returns a templ component writing sanitized markup.
func (t *Translator) HTMLComponent(key string, placeholders ...M) templ.Component {
	return templ.Raw(string(t.HTML(key, placeholders...)))
}
