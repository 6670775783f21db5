package posapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrNetwork marks connection level failures (refused, DNS, reset).
	ErrNetwork = errors.New("network error")
	// ErrTimeout marks requests that exceeded their deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrUnauthorized is matched by a *StatusError carrying 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is matched by a *StatusError carrying 404.
	ErrNotFound = errors.New("not found")
	// ErrDecode marks a response body that does not match the expected shape.
	ErrDecode = errors.New("malformed response")
	// ErrEmptyBody is returned when a single entity endpoint answers null or nothing.
	ErrEmptyBody = errors.New("empty response body")

	ErrTooManyRedirects      = errors.New("redirect loop detected")
	ErrCrossProtocolRedirect = errors.New("cross-protocol redirect not supported")
	ErrInvalidProxyURL       = errors.New("invalid proxy URL")
	ErrUnsupportedScheme     = errors.New("unsupported proxy scheme")
	ErrInvalidBaseURL        = errors.New("invalid base URL")
)

// User visible messages returned in Result.Message.
const (
	MsgOK             = "OK"
	MsgNoCSRF         = "Ne mogu dohvatiti CSRF token."
	MsgLoginRejected  = "Neispravni podaci."
	MsgCreateRejected = "Spremanje nije uspjelo."
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the "detail" field of a JSON error body, if any.
	Detail string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// IsTransport reports whether err is a transport level failure: network,
// timeout or non-2xx status.
func IsTransport(err error) bool {
	var se *StatusError
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout) || errors.As(err, &se)
}

func classify(method, path string, err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: %s %s: %w", ErrTimeout, method, path, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s %s: %w", method, path, err)
	default:
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
}
