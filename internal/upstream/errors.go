package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a failed call to the upstream backend: either the
// request never completed (Err set) or it returned a non-2xx status.
type TransportError struct {
	Method string
	URL    string
	Status int // 0 when the request did not complete
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error: %s %s: upstream returned %d %s",
			e.Method, e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying later may succeed.
func (e *TransportError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// AuthError is an authentication failure reported by the backend, carrying
// its "error" message for display.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (%d)", e.Status)
	}
	return "authentication failed: " + e.Message
}

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
