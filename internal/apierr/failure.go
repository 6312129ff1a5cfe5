package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"suitadmin/internal/api/types"
)

// Failure is what the HTTP client boundary observed when a call did not
// produce a usable success envelope. It is one of StructuredAPIError,
// RawHTTPStatus or NetworkFailure.
type Failure interface {
	failure()
}

// StructuredAPIError is a response whose body carried an error object.
type StructuredAPIError struct {
	Status int
	Body   types.Error
}

// RawHTTPStatus is a response without a structured error object. Message
// holds a free-text "message" field from the body, if there was one.
type RawHTTPStatus struct {
	Status  int
	Message string
}

// NetworkFailure means no response was received.
type NetworkFailure struct {
	Cause error
}

func (StructuredAPIError) failure() {}
func (RawHTTPStatus) failure()      {}
func (NetworkFailure) failure()     {}

// failureBody is the subset of an envelope inspected on failure. Error is
// kept raw because some endpoints send a bare string instead of an object.
type failureBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// Decode classifies the outcome of a failed call once. transportErr takes
// priority; otherwise body is inspected for a structured error object, then
// for a free-text message.
func Decode(status int, body []byte, transportErr error) Failure {
	if transportErr != nil {
		return NetworkFailure{Cause: transportErr}
	}

	var parsed failureBody
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return RawHTTPStatus{Status: status}
	}

	if len(parsed.Error) > 0 {
		var structured types.Error
		if err := json.Unmarshal(parsed.Error, &structured); err == nil {
			if structured.Code != "" {
				return StructuredAPIError{Status: status, Body: structured}
			}
			// A code-less error object still names what went wrong.
			if structured.Message != "" {
				return RawHTTPStatus{Status: status, Message: structured.Message}
			}
		}
		var text string
		if err := json.Unmarshal(parsed.Error, &text); err == nil && text != "" && parsed.Message == "" {
			parsed.Message = text
		}
	}

	return RawHTTPStatus{Status: status, Message: parsed.Message}
}

// Normalize turns a Failure into an *Error. Precedence is
// body-structured-error > body-message > status table.
func Normalize(f Failure) *Error {
	switch v := f.(type) {
	case StructuredAPIError:
		message := http.StatusText(v.Status)
		if message == "" {
			message = "Request failed"
		}
		return FromBody(&v.Body, v.Status, message)
	case RawHTTPStatus:
		err := FromStatus(v.Status)
		if v.Message != "" {
			err.Message = v.Message
		}
		return err
	case NetworkFailure:
		if isTimeout(v.Cause) {
			return TimeoutError(v.Cause)
		}
		return NetworkError(v.Cause)
	}
	return New(CodeUnknown, "Request failed")
}

// isTimeout reports whether a transport error was caused by a deadline
// rather than by the connection itself failing.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
