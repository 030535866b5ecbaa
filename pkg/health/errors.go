package health

import "errors"

var (
	// ErrCheckFailed is returned when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported for a check that did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")
)
