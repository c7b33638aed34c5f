package core

import (
	"fmt"
	"net/http"
)

// ErrorKind categorizes failures surfaced through ErrorEvent notifications.
type ErrorKind int

const (
	// ErrKindUnknown is an unclassified failure.
	ErrKindUnknown ErrorKind = iota
	// ErrKindConnectionFailed is a transport-level failure to reach the API.
	ErrKindConnectionFailed
	// ErrKindHTTP is a request that returned an unexpected status code.
	ErrKindHTTP
	// ErrKindParse is a malformed payload (stream line or response body).
	ErrKindParse
	// ErrKindStream is a mid-stream read failure.
	ErrKindStream
	// ErrKindAuth is an authentication failure (user not logged in).
	ErrKindAuth
	// ErrKindInsufficientCredits means the account has no credits left.
	ErrKindInsufficientCredits
	// ErrKindNPCNotFound means the targeted NPC does not exist.
	ErrKindNPCNotFound
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindConnectionFailed:
		return "CONNECTION_FAILED"
	case ErrKindHTTP:
		return "HTTP_ERROR"
	case ErrKindParse:
		return "PARSE_ERROR"
	case ErrKindStream:
		return "STREAM_ERROR"
	case ErrKindAuth:
		return "AUTH_ERROR"
	case ErrKindInsufficientCredits:
		return "INSUFFICIENT_CREDITS"
	case ErrKindNPCNotFound:
		return "NPC_NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// KindForStatus maps an HTTP response status to an error kind.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return ErrKindAuth
	case http.StatusPaymentRequired:
		return ErrKindInsufficientCredits
	case http.StatusNotFound:
		return ErrKindNPCNotFound
	default:
		return ErrKindHTTP
	}
}

// APIError is returned by request/response operations that received a non-2xx
// status. Body holds a truncated copy of the response body for diagnostics.
type APIError struct {
	Op     string
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Body)
}

// Kind returns the classified error kind for the response status.
func (e *APIError) Kind() ErrorKind { return KindForStatus(e.Status) }
