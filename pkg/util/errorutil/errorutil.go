package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to API clients.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeFetchFailed       = "FETCH_FAILED"
	CodeWriteFailed       = "WRITE_FAILED"
	CodeAuthFailed        = "AUTH_FAILED"
	CodeEmailNotConfirmed = "EMAIL_NOT_CONFIRMED"
	CodeStorageFailed     = "STORAGE_FAILED"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewForbidden reports a role check failure. It is raised before any
// collection is touched.
func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewFetchError wraps a failed remote list call.
func NewFetchError(collection string, err error) error {
	return &DomainError{
		Code:       CodeFetchFailed,
		Message:    fmt.Sprintf("fetch %s failed", collection),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"collection": collection},
		Err:        err,
	}
}

// NewWriteError wraps a rejected remote insert, update or delete.
func NewWriteError(collection, op string, err error) error {
	return &DomainError{
		Code:       CodeWriteFailed,
		Message:    fmt.Sprintf("%s %s failed", op, collection),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"collection": collection, "op": op},
		Err:        err,
	}
}

func NewAuthFailed(message string) error {
	return NewDomainError(CodeAuthFailed, message, http.StatusUnauthorized, nil)
}

func NewEmailNotConfirmed(resent bool) error {
	return NewDomainError(CodeEmailNotConfirmed, "email not confirmed", http.StatusForbidden,
		map[string]any{"confirmation_resent": resent})
}

func NewStorageError(err error) error {
	return &DomainError{
		Code:       CodeStorageFailed,
		Message:    "object storage failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}
