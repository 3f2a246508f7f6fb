package fetch

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by Error when the server answered with a
// status outside 2xx.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Error is a transport or HTTP-status failure of a single request.
type Error struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v: %d", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a fetch Error caused by a non-2xx status,
// and returns that status.
func IsStatus(err error) (int, bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.StatusCode != 0 {
		return fe.StatusCode, true
	}
	return 0, false
}
