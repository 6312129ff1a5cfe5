package client

import (
	"encoding/json"

	"suitadmin/internal/api/types"
	"suitadmin/internal/apierr"
)

// Default messages used when a failed envelope carries no message of its own.
const (
	msgRequestFailed = "Request failed"
	msgCreateFailed  = "Create request failed"
	msgUpdateFailed  = "Update request failed"
	msgDeleteFailed  = "Delete request failed"
	msgNoData        = "No data received from server"
)

// Envelope is a decoded response body. Data stays raw so that a missing
// "data" key can be told apart from "data": null.
type Envelope struct {
	Success    bool                  `json:"success"`
	Data       json.RawMessage       `json:"data,omitempty"`
	Message    string                `json:"message,omitempty"`
	Error      *types.Error          `json:"error,omitempty"`
	Pagination *types.PaginationMeta `json:"pagination,omitempty"`
	Meta       *types.Meta           `json:"meta,omitempty"`

	// Status is the HTTP status the envelope arrived with.
	Status int `json:"-"`
}

// Page is one page of a paginated list. Pagination is nil when the server
// did not send any.
type Page[T any] struct {
	Data       []T                   `json:"data"`
	Pagination *types.PaginationMeta `json:"pagination,omitempty"`
}

// IsSuccess reports the envelope's success flag.
func IsSuccess(env *Envelope) bool {
	return env != nil && env.Success
}

// ExtractData returns the decoded payload of a successful envelope.
// A failed envelope yields its error (UNKNOWN_ERROR when none was sent) and
// a successful one without data yields NO_DATA.
func ExtractData[T any](env *Envelope) (T, error) {
	return extract[T](env, msgRequestFailed)
}

// ExtractCreateData is ExtractData for create endpoints.
func ExtractCreateData[T any](env *Envelope) (T, error) {
	return extract[T](env, msgCreateFailed)
}

// ExtractUpdateData is ExtractData for update endpoints.
func ExtractUpdateData[T any](env *Envelope) (T, error) {
	return extract[T](env, msgUpdateFailed)
}

// ExtractPaginatedData returns the items and pagination of a successful
// list envelope. An empty or missing data array is a valid empty page.
func ExtractPaginatedData[T any](env *Envelope) (Page[T], error) {
	if err := checkSuccess(env, msgRequestFailed); err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{Data: []T{}, Pagination: env.Pagination}
	if len(env.Data) == 0 {
		return page, nil
	}
	if err := json.Unmarshal(env.Data, &page.Data); err != nil {
		return Page[T]{}, invalidData(err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}

// ValidateDeleteResponse returns an error unless the envelope succeeded.
// Delete responses need not carry data.
func ValidateDeleteResponse(env *Envelope) error {
	return checkSuccess(env, msgDeleteFailed)
}

func extract[T any](env *Envelope, defaultMessage string) (T, error) {
	var zero T
	if err := checkSuccess(env, defaultMessage); err != nil {
		return zero, err
	}
	if len(env.Data) == 0 {
		return zero, &apierr.Error{Code: apierr.CodeNoData, Message: msgNoData, Status: env.Status}
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, invalidData(err)
	}
	return out, nil
}

func checkSuccess(env *Envelope, defaultMessage string) error {
	if env == nil {
		return apierr.New(apierr.CodeNoData, msgNoData)
	}
	if !env.Success {
		return apierr.FromBody(env.Error, env.Status, defaultMessage)
	}
	return nil
}

func invalidData(err error) error {
	return apierr.Wrap(apierr.CodeInvalidResponse, "Server returned data in an unexpected shape", err)
}
