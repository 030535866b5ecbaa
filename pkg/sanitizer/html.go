package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicy  *bluemonday.Policy
	markupPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()

		// Inline formatting a translated sentence may need, plus the block
		// elements markdown rendering produces.
		markupPolicy = bluemonday.NewPolicy()
		markupPolicy.AllowStandardURLs()
		markupPolicy.AllowElements(
			"p", "br", "span",
			"strong", "b", "em", "i", "u", "small", "mark", "sub", "sup",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h1", "h2", "h3", "h4", "h5", "h6",
		)
		markupPolicy.AllowAttrs("href", "title").OnElements("a")
		markupPolicy.AllowAttrs("lang", "dir").Globally()
		markupPolicy.RequireNoFollowOnLinks(true)
	})
}

// Markup keeps inline formatting, lists, headings and links with safe URLs,
// and strips scripts, event handlers, styles and unsafe URL schemes.
func Markup(s string) string {
	initPolicies()
	return markupPolicy.Sanitize(s)
}

// PlainText strips every tag and returns the text content.
func PlainText(s string) string {
	initPolicies()
	return plainPolicy.Sanitize(s)
}

// WithPolicy applies a custom bluemonday policy.
// Returns s unchanged if policy is nil.
func WithPolicy(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
