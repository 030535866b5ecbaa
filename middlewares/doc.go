// Package middlewares provides net/http middleware for y10n servers.
// Every middleware has the func(http.Handler) http.Handler shape and plugs
// into chi or any other router.
//
// # Request ID
//
// RequestID assigns a unique ID to each request. Incoming X-Request-ID or
// X-Correlation-ID values are preserved, otherwise a UUID is generated.
// Pair it with RequestIDExtractor so every log record carries request_id:
//
//	log, _ := logger.New(logger.WithExtractors(middlewares.RequestIDExtractor()))
//	r := chi.NewRouter()
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover catches panics, logs them with the request context and writes a
// 500 response. The response is customizable with WithRecoverHandler.
//
// # Localize
//
// Localize resolves the request's languages and stores a Translator in the
// context. An explicit choice from ?lang= or the "lang" cookie ranks above
// Accept-Language:
//
//	r.Use(middlewares.Localize(localizer))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    tr := middlewares.GetTranslator(r.Context())
//	    fmt.Fprintln(w, tr.T("greeting", l10n.M{"name": "Ada"}))
//	})
package middlewares
