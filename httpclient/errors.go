package httpclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client errors.
type ErrorKind int

const (
	// KindTimeout is a request that ran out of time.
	KindTimeout ErrorKind = iota
	// KindConnection is a failure to reach the server or read its reply.
	KindConnection
	// KindStatus is a response with a non-2xx status.
	KindStatus
	// KindEncoding is a request body that could not be built.
	KindEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindStatus:
		return "status"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Error is a classified client error.
type Error struct {
	Kind ErrorKind
	// StatusCode is 0 unless Kind is KindStatus.
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newTimeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Message: err.Error(), Err: err}
}

func newConnectionError(err error) *Error {
	return &Error{Kind: KindConnection, Message: err.Error(), Err: err}
}

func newEncodingError(err error) *Error {
	return &Error{Kind: KindEncoding, Message: err.Error(), Err: err}
}

// checkStatus returns an error for non-2xx statuses.
func checkStatus(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &Error{
		Kind:       KindStatus,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTimeout
}

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindConnection
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
