package chatclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed send
type Kind int

const (
	KindRateLimited Kind = iota + 1
	KindRequestFailed
	KindStreamUnsupported
	KindServerReported
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindRequestFailed:
		return "request failed"
	case KindStreamUnsupported:
		return "stream unsupported"
	case KindServerReported:
		return "server error"
	case KindTransport:
		return "transport error"
	default:
		return "unknown error"
	}
}

// User-facing messages, kept identical to the web widget
const (
	rateLimitedMessage       = "Rate limit exceeded. Please wait a moment before sending another message."
	requestFailedMessage     = "Failed to send message. Please try again."
	streamUnsupportedMessage = "Streaming not supported"
)

// Error is the error delivered to OnError.
// Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, when the failure came from one
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrRateLimited) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrRequestFailed     = &Error{Kind: KindRequestFailed}
	ErrStreamUnsupported = &Error{Kind: KindStreamUnsupported}
	ErrServerReported    = &Error{Kind: KindServerReported}
	ErrTransport         = &Error{Kind: KindTransport}

	// ErrEmptyMessage is returned for blank input; no request is made
	ErrEmptyMessage = errors.New("message is empty")
)

func statusError(status int) *Error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, Status: status, Message: rateLimitedMessage}
	}
	return &Error{Kind: KindRequestFailed, Status: status, Message: requestFailedMessage}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}
