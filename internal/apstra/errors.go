package apstra

import (
	"errors"
	"fmt"
)

// ErrPollTimeout is returned when a command job does not complete within the
// configured number of poll attempts.
var ErrPollTimeout = errors.New("command poll attempts exhausted")

// ErrNotAuthenticated is returned when a call requires a token and Login has
// not succeeded yet.
var ErrNotAuthenticated = errors.New("not authenticated")

// TransportError wraps a network or HTTP-level failure talking to the
// controller. Jobs fail immediately on transport errors; nothing at this
// layer retries.
type TransportError struct {
	Op     string // "submit", "poll", "cleanup", "login", ...
	URL    string
	Status int // zero when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s %s: unexpected status %d: %v", e.Op, e.URL, e.Status, e.Err)
		}
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError carries the error body the controller attaches to a failed
// request. It is always wrapped inside a *TransportError.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ExtractionError reports a missing or malformed field while navigating
// device command output. Path identifies how far the walk got.
type ExtractionError struct {
	Path  string
	Cause string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.Path, e.Cause)
}

func extractErr(path, format string, args ...any) *ExtractionError {
	return &ExtractionError{Path: path, Cause: fmt.Sprintf(format, args...)}
}
