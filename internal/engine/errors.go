package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine round trips.
var (
	// ErrRequestFailed signals a network failure or a non-2xx engine status.
	ErrRequestFailed = errors.New("engine: request failed")
	// ErrBadResponse signals a response body that cannot be parsed.
	ErrBadResponse = errors.New("engine: malformed response")
)

// Error wraps an engine failure with the operation and HTTP status for diagnostics.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Err.Error())
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
