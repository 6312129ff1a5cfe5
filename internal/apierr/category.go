package apierr

// Category groups error codes by how the dashboard reacts to them.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryAuth       Category = "auth"
	CategoryNotFound   Category = "not_found"
	CategoryServer     Category = "server"
	CategoryNetwork    Category = "network"
	CategoryUnknown    Category = "unknown"
)

// Action is what the request boundary should do with a classified error.
type Action string

const (
	// ActionFieldMessage shows the message next to the offending form field.
	ActionFieldMessage Action = "field_message"
	// ActionBanner shows the message as a page level notice.
	ActionBanner Action = "banner"
	// ActionSignOut drops the session and sends the user to the login page.
	ActionSignOut Action = "sign_out"
)

// Classify returns the category of err. Errors that are not *Error are
// unknown.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case IsValidationError(err):
		return CategoryValidation
	case IsAuthError(err):
		return CategoryAuth
	case IsNotFoundError(err):
		return CategoryNotFound
	case IsServerError(err):
		return CategoryServer
	}

	switch CodeOf(err) {
	case CodeNetwork, CodeTimeout:
		return CategoryNetwork
	}
	return CategoryUnknown
}

// Action returns the UI reaction for the category.
func (c Category) Action() Action {
	switch c {
	case CategoryValidation:
		return ActionFieldMessage
	case CategoryAuth:
		return ActionSignOut
	}
	return ActionBanner
}
