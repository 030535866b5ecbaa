package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/y10n/internal/reloader"
	"github.com/dmitrymomot/y10n/middlewares"
	"github.com/dmitrymomot/y10n/pkg/source"
)

var (
	ErrKeyNotFound        = errors.New("translation key not found")
	ErrReloadNotAvailable = errors.New("reloading is not configured")
	ErrUnknownFormat      = errors.New("unknown response format")
)

// HTTPError is an error with everything needed to render it.
type HTTPError struct {
	// Err is the underlying error, logged but not exposed.
	Err       error  `json:"-"`
	Message   string `json:"message"`
	ErrorCode string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	Code      int    `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// toHTTPError maps domain errors to status codes. It is the only place
// that decides how an error looks on the wire.
func toHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	e := &HTTPError{Err: err, Code: http.StatusInternalServerError, ErrorCode: "internal", Message: http.StatusText(http.StatusInternalServerError)}
	switch {
	case errors.Is(err, ErrKeyNotFound):
		e.Code, e.ErrorCode, e.Message = http.StatusNotFound, "key_not_found", err.Error()
	case errors.Is(err, ErrUnknownFormat):
		e.Code, e.ErrorCode, e.Message = http.StatusBadRequest, "unknown_format", err.Error()
	case errors.Is(err, ErrReloadNotAvailable):
		e.Code, e.ErrorCode, e.Message = http.StatusNotImplemented, "reload_unavailable", err.Error()
	case errors.Is(err, reloader.ErrNoDocuments):
		e.Code, e.ErrorCode, e.Message = http.StatusUnprocessableEntity, "no_documents", err.Error()
	case errors.Is(err, source.ErrAccessDenied),
		errors.Is(err, source.ErrListFailed),
		errors.Is(err, source.ErrDownloadFailed),
		errors.Is(err, source.ErrQueryFailed),
		errors.Is(err, source.ErrNotFound):
		e.Code, e.ErrorCode, e.Message = http.StatusBadGateway, "source_unavailable", "translation source unavailable"
	case errors.Is(err, source.ErrInvalidRow), errors.Is(err, source.ErrObjectTooLarge):
		e.Code, e.ErrorCode, e.Message = http.StatusUnprocessableEntity, "invalid_document", err.Error()
	}
	return e
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	if he.RequestID == "" {
		he.RequestID = middlewares.GetRequestID(r.Context())
	}

	level := slog.LevelWarn
	if he.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", he.Code),
		slog.Any("error", err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Code)
	_ = json.NewEncoder(w).Encode(map[string]*HTTPError{"error": he})
}
