// Package apierr defines the typed error every failed rental API call is
// normalized into, and the predicates callers use to decide how to react.
//
// Errors are identified by a flat namespaced code (VALIDATION_ERROR,
// UNAUTHORIZED, NOT_FOUND, ...) rather than by Go type, so one *Error type
// serves every resource.
package apierr

import (
	"errors"
	"fmt"
	"strings"

	"suitadmin/internal/api/types"
)

// Error codes produced or recognized by the client.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeConflict          = "CONFLICT"
	CodeServer            = "SERVER_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
	CodeNetwork           = "NETWORK_ERROR"
	CodeTimeout           = "TIMEOUT_ERROR"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeNoData            = "NO_DATA"
	CodeInvalidResponse   = "INVALID_RESPONSE"
	CodeOutsideGeofence   = "VALIDATION_OUTSIDE_GEOFENCE"
)

const (
	validationPrefix = "VALIDATION_"
	serverPrefix     = "SERVER_"
)

// Error is a normalized API failure. It is built once per failed call and
// never mutated afterwards.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Field   string

	// Status is the HTTP status the failure arrived with, 0 if none.
	Status int

	cause error
}

// New creates an error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that keeps cause reachable through errors.Unwrap.
func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// FromBody converts a structured envelope error into an *Error.
// An empty code becomes UNKNOWN_ERROR and an empty message becomes
// defaultMessage.
func FromBody(body *types.Error, status int, defaultMessage string) *Error {
	if body == nil {
		return &Error{Code: CodeUnknown, Message: defaultMessage, Status: status}
	}
	code := body.Code
	if code == "" {
		code = CodeUnknown
	}
	message := body.Message
	if message == "" {
		message = defaultMessage
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: body.Details,
		Field:   body.Field,
		Status:  status,
	}
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithField returns a copy of e that points at the given input field.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

// Body converts the error back into its wire form.
func (e *Error) Body() types.Error {
	return types.Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Field:   e.Field,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsValidationError reports whether err carries a VALIDATION_* or
// INVALID_INPUT code.
func IsValidationError(err error) bool {
	code := CodeOf(err)
	return strings.HasPrefix(code, validationPrefix) || code == CodeInvalidInput
}

// IsAuthError reports whether err means the session is no longer valid.
func IsAuthError(err error) bool {
	switch CodeOf(err) {
	case CodeUnauthorized, CodeInvalidToken, CodeTokenExpired:
		return true
	}
	return false
}

// IsNotFoundError reports whether err is a NOT_FOUND or RESOURCE_NOT_FOUND.
func IsNotFoundError(err error) bool {
	switch CodeOf(err) {
	case CodeNotFound, CodeResourceNotFound:
		return true
	}
	return false
}

// IsServerError reports whether err carries a SERVER_* or INTERNAL_ERROR code.
func IsServerError(err error) bool {
	code := CodeOf(err)
	return strings.HasPrefix(code, serverPrefix) || code == CodeInternal
}

// IsRetryableError reports whether the failure may succeed if the same
// request is issued again. It is a fixed set; nothing here retries.
func IsRetryableError(err error) bool {
	switch CodeOf(err) {
	case CodeNetwork, CodeServer, CodeTimeout, CodeRateLimitExceeded:
		return true
	}
	return false
}
