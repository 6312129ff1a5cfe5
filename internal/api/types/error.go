package types

// Error represents error information in API responses
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Field   string         `json:"field,omitempty"`
}

// DetailedErrorResponse creates an error API response carrying the offending
// field and extra details.
func DetailedErrorResponse(e Error) Response {
	return Response{
		Success: false,
		Error:   &e,
	}
}
