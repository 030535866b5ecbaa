// Package logger builds the slog loggers used by the y10n server and CLI.
//
// Loggers write JSON (or text, for local development) and can enrich every
// record with request-scoped attributes through [ContextExtractor]s, such
// as the request ID or the resolved language:
//
//	log, err := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//		logger.WithExtractors(middlewares.RequestIDExtractor(), middlewares.LanguageExtractor()),
//	)
//
// When a Sentry DSN is configured, warnings and errors are also forwarded
// to Sentry; errors create issues. Without a DSN the logger writes to the
// output only.
//
// [NewNope] returns a logger that discards everything, for tests and for
// libraries that were not given a logger.
package logger
