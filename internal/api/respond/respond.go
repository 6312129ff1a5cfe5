// Package respond writes the JSON envelope for every suitadmin endpoint.
//
// Handlers never build types.Response by hand: they call OK, Created, Page or
// Message on success and Error on failure. Error maps the apierr code to an
// HTTP status and runs the auth hook installed by the session middleware.
package respond

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"suitadmin/internal/api/types"
	"suitadmin/internal/apierr"
)

// Version is reported in every response's meta block.
var Version = "dev"

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"

	onAuthErrorKey = "respond.on_auth_error"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports the name a client sent a field under: its json key for
// bodies, its form key for query strings.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// RequestID returns the id assigned to the current request.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// OK writes data with status 200.
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, types.SuccessResponse(data))
}

// Created writes data with status 201.
func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, types.SuccessResponse(data))
}

// Page writes a list with its pagination.
func Page(c *gin.Context, data any, pagination *types.PaginationMeta) {
	write(c, http.StatusOK, types.SuccessResponseWithPagination(data, pagination))
}

// Message writes a data-less success, as used by delete endpoints.
func Message(c *gin.Context, message string) {
	write(c, http.StatusOK, types.MessageResponse(message))
}

// OnAuthError registers fn to run before an auth-category error is written
// for this request.
func OnAuthError(c *gin.Context, fn func(*gin.Context)) {
	c.Set(onAuthErrorKey, fn)
}

// Error aborts the request with err. Errors that are not *apierr.Error are
// reported as INTERNAL_ERROR without exposing their text.
func Error(c *gin.Context, err error) {
	apiErr := asAPIError(err)
	status := apierr.HTTPStatus(apiErr.Code)

	if apierr.IsAuthError(apiErr) {
		if fn, ok := c.Get(onAuthErrorKey); ok {
			if hook, ok := fn.(func(*gin.Context)); ok {
				hook(c)
			}
		}
	}

	event := log.Debug()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("request_id", RequestID(c)).
		Str("code", apiErr.Code).
		Int("status", status).
		Str("category", string(apierr.Classify(apiErr))).
		Msg("Request failed")

	_ = c.Error(err)
	c.Abort()
	write(c, status, types.DetailedErrorResponse(apiErr.Body()))
}

// BindError reports a request that could not be bound. Validation failures
// name the offending field; anything else is INVALID_INPUT.
func BindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Field()
		Error(c, &apierr.Error{
			Code:    apierr.CodeValidation,
			Message: field + " failed the " + fe.Tag() + " check",
			Field:   field,
		})
		return
	}
	Error(c, apierr.Wrap(apierr.CodeInvalidInput, "Request body is invalid", err))
}

func asAPIError(err error) *apierr.Error {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierr.Wrap(apierr.CodeInternal, "Internal server error", err)
}

func write(c *gin.Context, status int, r types.Response) {
	c.JSON(status, r.WithMeta(RequestID(c), Version))
}
