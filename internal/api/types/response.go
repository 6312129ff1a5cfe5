// Package types defines the JSON envelope shared by the suitadmin HTTP API and
// the remote rental API it fronts.
//
// Every response, successful or not, is wrapped the same way:
//
//	{"success": true, "data": {...}, "pagination": {...}, "meta": {...}}
//	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}}
package types

import "time"

// PaginationMeta represents pagination metadata in API responses.
//
// All values are derived server side; clients treat them as display data.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Meta carries per-response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Version   string    `json:"version,omitempty"`
}

// Response represents the standard API response wrapper
type Response struct {
	Success    bool            `json:"success"`
	Data       any             `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Error      *Error          `json:"error,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Meta       *Meta           `json:"meta,omitempty"`
}

// WithMeta stamps the response with a timestamp, request id and version.
func (r Response) WithMeta(requestID, version string) Response {
	r.Meta = &Meta{
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
		Version:   version,
	}
	return r
}

// SuccessResponse creates a successful API response
func SuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// SuccessResponseWithPagination creates a successful API response with pagination
func SuccessResponseWithPagination(data any, pagination *PaginationMeta) Response {
	return Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	}
}

// MessageResponse creates a successful response that carries only a message,
// as returned by delete endpoints.
func MessageResponse(message string) Response {
	return Response{
		Success: true,
		Message: message,
	}
}
