package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure classes the API can report.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

type APIError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	cause   error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// HTTPStatus is the transport status for the error's kind.
func (e *APIError) HTTPStatus() int {
	return StatusOf(e.Kind)
}

// Wrap keeps err reachable through errors.Is/As without exposing it to clients.
func (e *APIError) Wrap(err error) *APIError {
	copied := *e
	copied.cause = err
	return &copied
}

// StatusOf is the single translation from error kind to HTTP status.
// Conflicts are reported as 400 to match the established API contract.
func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code string, message string, details string) *APIError {
	return &APIError{Kind: kind, Code: code, Message: message, Details: details}
}

func Validation(message string, details string) *APIError {
	return New(KindValidation, "BAD_REQUEST", message, details)
}

func NotFound(message string, details string) *APIError {
	return New(KindNotFound, "NOT_FOUND", message, details)
}

func Unauthenticated(message string) *APIError {
	return New(KindUnauthenticated, "UNAUTHORIZED", message, "")
}

func Forbidden(message string) *APIError {
	return New(KindForbidden, "FORBIDDEN", message, "")
}

func Conflict(message string, details string) *APIError {
	return New(KindConflict, "ALREADY_EXISTS", message, details)
}

func RateLimited(message string) *APIError {
	return New(KindRateLimited, "RATE_LIMITED", message, "")
}

func Internal(err error) *APIError {
	return New(KindInternal, "INTERNAL_ERROR", "Unexpected server error", "").Wrap(err)
}

// KindOf reports the kind of the first APIError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries an APIError of the given kind.
func Is(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
