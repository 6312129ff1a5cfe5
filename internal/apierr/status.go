package apierr

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	networkMessage = "Network error. Please check your connection."
	timeoutMessage = "Request timed out"
)

// statusTable is the fallback used when a failed response carries no
// structured error object.
var statusTable = map[int]struct {
	code    string
	message string
}{
	http.StatusBadRequest:          {CodeBadRequest, "Invalid request"},
	http.StatusUnauthorized:        {CodeUnauthorized, "Authentication required"},
	http.StatusForbidden:           {CodeForbidden, "Access denied"},
	http.StatusNotFound:            {CodeNotFound, "Resource not found"},
	http.StatusUnprocessableEntity: {CodeValidation, "Validation failed"},
	http.StatusInternalServerError: {CodeServer, "Internal server error"},
}

// FromStatus maps an HTTP status to an error using the fixed status table.
// Statuses outside the table become UNKNOWN_ERROR.
func FromStatus(status int) *Error {
	if entry, ok := statusTable[status]; ok {
		return &Error{Code: entry.code, Message: entry.message, Status: status}
	}
	return &Error{
		Code:    CodeUnknown,
		Message: fmt.Sprintf("Request failed with status %d", status),
		Status:  status,
	}
}

// NetworkError wraps a transport failure where no response was received.
func NetworkError(cause error) *Error {
	return Wrap(CodeNetwork, networkMessage, cause)
}

// TimeoutError wraps a transport failure caused by a deadline.
func TimeoutError(cause error) *Error {
	return Wrap(CodeTimeout, timeoutMessage, cause)
}

// HTTPStatus returns the status suitadmin answers with when relaying an
// error with the given code to the browser.
func HTTPStatus(code string) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidToken, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeResourceNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case CodeNetwork, CodeNoData, CodeInvalidResponse:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	}

	switch {
	case strings.HasPrefix(code, validationPrefix), code == CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, serverPrefix), code == CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
