// Package errors defines the sentinel errors shared by the indexer and the
// searcher and maps them onto HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrParse marks malformed boolean expressions (unbalanced parentheses,
	// unrecognized operators).
	ErrParse = errors.New("parse error")
	// ErrValidation marks structurally valid queries with bad arguments, such
	// as a non-numeric or negative proximity distance.
	ErrValidation = errors.New("validation error")
	// ErrIndexNotBuilt is returned when a query arrives before any snapshot
	// has been installed.
	ErrIndexNotBuilt = errors.New("index not built")
)

var (
	ErrCorruptIndex = errors.New("corrupt index")
	ErrInvalidInput = errors.New("invalid input")
	ErrSourceFailed = errors.New("document source failed")
	ErrInternal     = errors.New("internal error")
	ErrTimeout      = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// IsClientError reports whether err was caused by the query itself rather
// than by the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrParse) || errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidInput)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrParse), errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrIndexNotBuilt), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
