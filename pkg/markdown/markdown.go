// Package markdown renders translation strings written in Markdown.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in the source is not rendered; translators write Markdown only.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
)

// Render converts Markdown to HTML.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: render: %w", err)
	}
	return buf.String(), nil
}

// RenderInline converts a single-paragraph Markdown string to HTML without
// the surrounding <p> element, for use inside sentences and buttons.
func RenderInline(src string) (string, error) {
	out, err := Render(src)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if strings.Count(out, "<p>") == 1 && strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out, nil
}
