package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound means the service answered 404 or the entity was absent.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated is returned before any request is made when a
	// protected operation runs without a stored token.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// RequestError is a failed exchange with the service: the request could not
// be sent, the status was not 2xx, or the body could not be decoded.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ValidationError rejects input before it reaches the network.
type ValidationError struct {
	Field   string
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type Outcome int

const (
	OK Outcome = iota
	NotFound
	TransportError
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case NotFound:
		return "not-found"
	case TransportError:
		return "transport-error"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Classify maps an error returned by Client to its tagged outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OK
	}
	if errors.Is(err, ErrNotFound) {
		return NotFound
	}
	var vErr *ValidationError
	if errors.Is(err, ErrNotAuthenticated) || errors.As(err, &vErr) {
		return Invalid
	}
	return TransportError
}

// Message is the human readable text for a notification.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var rErr *RequestError
	if errors.As(err, &rErr) && rErr.Message != "" {
		return rErr.Message
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return "Please login first."
	}
	if errors.Is(err, ErrNotFound) {
		return "Not found."
	}
	return "Something went wrong. Please try again."
}
