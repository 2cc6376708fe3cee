package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
)

// Kind is the closed set of failure categories surfaced to callers.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetworkUnreachable
	KindTimeout
	KindNotFound
	KindRateLimited
	KindServerError
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindNetworkUnreachable: "network_unreachable",
	KindTimeout:            "timeout",
	KindNotFound:           "not_found",
	KindRateLimited:        "rate_limited",
	KindServerError:        "server_error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var defaultMessages = map[Kind]string{
	KindUnknown:            "Something unexpected happened. Please try again.",
	KindNetworkUnreachable: "Cannot reach the server. Check your connection and try again.",
	KindTimeout:            "The server took too long to respond. Please try again.",
	KindNotFound:           "The requested content could not be found.",
	KindRateLimited:        "Too many requests. Please wait a moment and try again.",
	KindServerError:        "The server ran into a problem. Please try again later.",
}

// DefaultMessage is the user-facing text of a kind when the server gives none.
func DefaultMessage(k Kind) string { return defaultMessages[k] }

// FieldError is a per-field validation failure reported by the server.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the only error type returned by request-issuing client methods.
// Message is always safe to show to a user.
type Error struct {
	Kind        Kind
	Status      int
	Code        string
	Message     string
	FieldErrors []FieldError
	Err         error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same request may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetworkUnreachable, KindTimeout, KindRateLimited, KindServerError:
		return true
	}
	return false
}

// Failure is the raw outcome of a failed exchange: a transport error, or a
// status with whatever the server said about it.
type Failure struct {
	Err           error
	Status        int
	ServerCode    string
	ServerMessage string
	FieldErrors   []FieldError
}

// ClassifyError maps a failure to exactly one Kind, checking in order:
// network failure, timeout, explicit server message, HTTP status, generic.
// A server message replaces the default text; the kind still follows the status.
func ClassifyError(f Failure) *Error {
	out := &Error{Status: f.Status, Code: f.ServerCode, FieldErrors: f.FieldErrors, Err: f.Err}

	switch {
	case f.Err != nil && isNetworkFailure(f.Err):
		out.Kind = KindNetworkUnreachable
	case f.Err != nil && isTimeout(f.Err):
		out.Kind = KindTimeout
	case f.ServerMessage != "":
		out.Kind = kindForStatus(f.Status)
		out.Message = f.ServerMessage
	case f.Status != 0:
		out.Kind = kindForStatus(f.Status)
	default:
		out.Kind = KindUnknown
	}
	if out.Message == "" {
		out.Message = defaultMessages[out.Kind]
	}
	return out
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= http.StatusInternalServerError:
		return KindServerError
	default:
		return KindUnknown
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// isNetworkFailure is true for transport errors that never produced a response
// and are not timeouts: refused or reset connections, DNS failures, dropped streams.
func isNetworkFailure(err error) bool {
	if isTimeout(err) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// UserMessage is the text to show instead of Error().
func (e *Error) UserMessage() string { return e.Message }
