package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes understood by the HTTP boundary.
const (
	CodeAlreadyExist         = "ALREADY_EXIST"
	CodeAuthFailed           = "AUTH_FAILED"
	CodeAuthInfoMissing      = "AUTH_INFO_MISSING"
	CodeConflict             = "CONFLICT"
	CodeCreateResourceFailed = "CREATE_RESOURCE_FAILED"
	CodeImmutable            = "IMMUTABLE"
	CodeNotExist             = "NOT_EXIST"
	CodeParametersInvalid    = "PARAMETERS_INVALID"
	CodePasswordError        = "PASSWORD_ERROR"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternal             = "INTERNAL_ERROR"
)

var statusTable = map[string]int{
	CodeAlreadyExist:         http.StatusConflict,
	CodeAuthFailed:           http.StatusUnauthorized,
	CodeAuthInfoMissing:      http.StatusBadRequest,
	CodeConflict:             http.StatusConflict,
	CodeCreateResourceFailed: http.StatusInternalServerError,
	CodeImmutable:            http.StatusForbidden,
	CodeNotExist:             http.StatusNotFound,
	CodeParametersInvalid:    http.StatusBadRequest,
	CodePasswordError:        http.StatusUnauthorized,
	CodeInvalidToken:         http.StatusUnauthorized,
	CodeUnauthorized:         http.StatusUnauthorized,
	CodeForbidden:            http.StatusForbidden,
	CodeInternal:             http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an error code. Unknown codes are 500.
func StatusFor(code string) int {
	if status, ok := statusTable[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Expected reports whether code is a known, anticipated outcome that
// should not be logged as a failure.
func Expected(code string) bool {
	if code == CodeInternal {
		return false
	}
	_, ok := statusTable[code]
	return ok
}

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

// NewDomainError constructs a DomainError whose status comes from the table.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: StatusFor(code), Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeParametersInvalid, message, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(CodeNotExist, fmt.Sprintf("%s not found", resource), details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, nil)
}

func NewAuthInfoMissing(message string) error {
	return NewDomainError(CodeAuthInfoMissing, message, nil)
}

func NewInvalidToken() error {
	return NewDomainError(CodeInvalidToken, "invalid token", nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, details)
}

func NewInternalError(err error) error {
	de := NewDomainError(CodeInternal, "internal server error", nil)
	de.Err = err
	return de
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
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
