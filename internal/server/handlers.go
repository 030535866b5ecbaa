package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/dmitrymomot/y10n/middlewares"
	"github.com/dmitrymomot/y10n/pkg/l10n"
)

// Query parameters consumed by the server itself; every other parameter
// of a message request is a placeholder value.
var reservedParams = map[string]bool{"lang": true, "format": true}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	tr := middlewares.GetTranslator(r.Context())
	s.writeValue(w, r, tr.Tree())
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	tr := middlewares.GetTranslator(r.Context())
	key := strings.Trim(strings.ReplaceAll(chi.URLParam(r, "*"), "/", "."), ".")

	v, ok := tr.Value(key)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", ErrKeyNotFound, key))
		return
	}

	if _, isScalar := v.(l10n.Scalar); isScalar {
		v = l10n.Scalar(tr.T(key, placeholders(r)))
	}

	out := l10n.NewMapping(2)
	out.Set("key", l10n.Scalar(key))
	out.Set("value", v)
	s.writeValue(w, r, out)
}

// LanguageInfo describes a loaded language.
type LanguageInfo struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
	Fallback    bool   `json:"fallback,omitempty"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	snap := s.localizer.Store().Snapshot()
	fallback, _, _ := snap.Fallback()

	tags := snap.Tags()
	out := make([]LanguageInfo, 0, len(tags))
	for _, t := range tags {
		out = append(out, Describe(t, t == fallback))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"version":   snap.Version(),
		"languages": out,
	})
}

// Describe names a tag in its own language and in English. Tags x/text
// does not know are named by their code.
func Describe(t l10n.Tag, fallback bool) LanguageInfo {
	info := LanguageInfo{Tag: t.String(), Name: t.String(), EnglishName: t.String(), Fallback: fallback}

	lt, err := language.Parse(t.String())
	if err != nil {
		return info
	}
	if name := display.Self.Name(lt); name != "" {
		info.Name = name
	}
	if name := display.English.Tags().Name(lt); name != "" {
		info.EnglishName = name
	}
	return info
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		s.writeError(w, r, ErrReloadNotAvailable)
		return
	}

	res, err := s.reloader.ReloadNow(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	store := s.localizer.Store()
	status := map[string]any{
		"version":    store.Snapshot().Version(),
		"generation": store.Generation(),
		"documents":  store.Len(),
	}
	if s.reloader != nil {
		status["reload"] = s.reloader.Status()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	tr := middlewares.GetTranslator(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewPage(tr).Render(r.Context(), w); err != nil {
		s.logger.ErrorContext(r.Context(), "render preview", "error", err)
	}
}

func placeholders(r *http.Request) l10n.M {
	m := l10n.M{}
	for name, values := range r.URL.Query() {
		if reservedParams[name] || len(values) == 0 {
			continue
		}
		m[name] = values[0]
	}
	return m
}

func (s *Server) writeValue(w http.ResponseWriter, r *http.Request, v l10n.Value) {
	var (
		body        []byte
		err         error
		contentType string
	)

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		body, err = l10n.EncodeJSON(v)
		contentType = "application/json"
	case "yaml", "yml":
		body, err = l10n.EncodeYAML(v)
		contentType = "application/yaml"
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Translations-Version", s.localizer.Store().Snapshot().Version())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
