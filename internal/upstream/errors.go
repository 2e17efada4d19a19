package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrTooLarge is returned when a download exceeds its byte limit.
var ErrTooLarge = errors.New("upstream response too large")

// Error is a failed call to a third-party API. Status is the HTTP status
// to report to the caller: the upstream status for non-2xx replies,
// 502 when the upstream could not be reached and 504 on timeout.
type Error struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TransportError classifies a failure that happened before a response arrived.
func TransportError(provider, message string, err error) *Error {
	status := http.StatusBadGateway
	if IsTimeout(err) {
		status = http.StatusGatewayTimeout
	}
	return &Error{Provider: provider, Status: status, Message: message, Err: err}
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
