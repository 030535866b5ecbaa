package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/y10n/pkg/l10n"
	"github.com/dmitrymomot/y10n/pkg/logger"
)

type translatorKey struct{}

// LocalizeConfig configures the Localize middleware.
type LocalizeConfig struct {
	// Override picks an explicit language that ranks above Accept-Language.
	Override    Extractor
	overrideSet bool
	SetLanguage bool
}

// LocalizeOption configures LocalizeConfig.
type LocalizeOption func(*LocalizeConfig)

// WithLocalizeOverride sets the extractor chain for an explicit language choice.
// Default: query "lang", then cookie "lang".
func WithLocalizeOverride(ext Extractor) LocalizeOption {
	return func(cfg *LocalizeConfig) {
		cfg.Override = ext
		cfg.overrideSet = true
	}
}

// WithoutContentLanguage disables the Content-Language response header.
func WithoutContentLanguage() LocalizeOption {
	return func(cfg *LocalizeConfig) {
		cfg.SetLanguage = false
	}
}

// Localize returns middleware that resolves the request's language
// preferences, merges the matching documents and stores a Translator in
// the request context.
//
// A valid tag from the override chain is ranked first with weight 1,
// followed by the Accept-Language entries. Invalid overrides are ignored.
func Localize(localizer *l10n.Localizer, opts ...LocalizeOption) func(http.Handler) http.Handler {
	cfg := &LocalizeConfig{SetLanguage: true}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.overrideSet {
		cfg.Override = NewExtractor(FromQuery("lang"), FromCookie("lang"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := RequestPreferences(r, cfg.Override)
			tr := localizer.Translator(r.Context(), raw)

			w.Header().Add("Vary", "Accept-Language")
			if lang := tr.Language(); cfg.SetLanguage && !lang.IsZero() {
				w.Header().Set("Content-Language", lang.String())
			}

			next.ServeHTTP(w, r.WithContext(WithTranslator(r.Context(), tr)))
		})
	}
}

// RequestPreferences builds the preference list for r in header form:
// the override tag, if any, followed by the raw Accept-Language value.
func RequestPreferences(r *http.Request, override Extractor) string {
	accept := r.Header.Get("Accept-Language")

	v, ok := override.Extract(r)
	if !ok {
		return accept
	}
	tag, err := l10n.ParseTag(v)
	if err != nil || tag.IsWildcard() {
		return accept
	}
	if accept == "" {
		return tag.String()
	}
	return tag.String() + "," + accept
}

// WithTranslator returns a copy of ctx carrying tr.
func WithTranslator(ctx context.Context, tr *l10n.Translator) context.Context {
	return context.WithValue(ctx, translatorKey{}, tr)
}

// GetTranslator extracts the Translator from the context.
// Returns nil if the Localize middleware is not used.
func GetTranslator(ctx context.Context) *l10n.Translator {
	if v, ok := ctx.Value(translatorKey{}).(*l10n.Translator); ok {
		return v
	}
	return nil
}

// GetLanguage returns the most preferred matched language, or the zero Tag.
func GetLanguage(ctx context.Context) l10n.Tag {
	if tr := GetTranslator(ctx); tr != nil {
		return tr.Language()
	}
	return l10n.Tag{}
}

// LanguageExtractor returns a ContextExtractor that adds "lang" to every
// log record written with a localized request context.
func LanguageExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if lang := GetLanguage(ctx); !lang.IsZero() {
			return slog.String("lang", lang.String()), true
		}
		return slog.Attr{}, false
	}
}
