// Package sanitizer cleans translation strings that carry inline markup
// before they are rendered unescaped into HTML pages.
//
// Translators are trusted less than template authors: a string such as
// "Read the <a href=\"/terms\">terms</a>" is fine, a stray <script> or an
// onclick attribute is not. The package wraps bluemonday policies for the
// two cases the template helpers need:
//
//	sanitizer.Markup(s)    // inline formatting and links survive
//	sanitizer.PlainText(s) // every tag is removed
package sanitizer
