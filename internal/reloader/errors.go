package reloader

import "errors"

var (
	// ErrNoDocuments is returned when a source yields no documents. The
	// store keeps serving the previous set.
	ErrNoDocuments = errors.New("reloader: source returned no documents")

	ErrInvalidSchedule = errors.New("reloader: invalid schedule")
	ErrAlreadyStarted  = errors.New("reloader: already started")
)
