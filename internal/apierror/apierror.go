// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ── Domain errors ────────────────────────────────────────────────────────────

// Kind classifies a domain error; handlers map it to an HTTP status.
type Kind int

const (
	KindValidacion Kind = iota + 1
	KindNoEncontrado
	KindConflicto
	KindNoAutorizado
	KindProhibido
)

// Error is a domain error safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidacion:
		return http.StatusBadRequest
	case KindNoEncontrado:
		return http.StatusNotFound
	case KindConflicto:
		return http.StatusConflict
	case KindNoAutorizado:
		return http.StatusUnauthorized
	case KindProhibido:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Validacion(format string, args ...any) error {
	return &Error{Kind: KindValidacion, Msg: fmt.Sprintf(format, args...)}
}

func NoEncontrado(format string, args ...any) error {
	return &Error{Kind: KindNoEncontrado, Msg: fmt.Sprintf(format, args...)}
}

func Conflicto(format string, args ...any) error {
	return &Error{Kind: KindConflicto, Msg: fmt.Sprintf(format, args...)}
}

func NoAutorizado(format string, args ...any) error {
	return &Error{Kind: KindNoAutorizado, Msg: fmt.Sprintf(format, args...)}
}

func Prohibido(format string, args ...any) error {
	return &Error{Kind: KindProhibido, Msg: fmt.Sprintf(format, args...)}
}

// As extracts a domain error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries a domain error of the given kind.
func Is(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}
