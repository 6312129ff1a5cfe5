package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"suitadmin/internal/apierr"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so the field matches what the form submitted.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(validateDiscount, DiscountInput{})
	v.RegisterStructValidation(validateBooking, BookingInput{})
	v.RegisterStructValidation(validateRental, RentalInput{})
	v.RegisterStructValidation(validateTimeOff, TimeOffInput{})
	return v
}

func validateDiscount(sl validator.StructLevel) {
	in := sl.Current().Interface().(DiscountInput)
	if in.Type == DiscountPercentage && in.Value > 100 {
		sl.ReportError(in.Value, "value", "Value", "lte", "100")
	}
	checkDateOrder(sl, in.ValidFrom, in.ValidUntil, "valid_until", "ValidUntil", "valid_from")
}

func validateBooking(sl validator.StructLevel) {
	in := sl.Current().Interface().(BookingInput)
	checkDateOrder(sl, in.PickupDate, in.ReturnDate, "return_date", "ReturnDate", "pickup_date")
}

func validateRental(sl validator.StructLevel) {
	in := sl.Current().Interface().(RentalInput)
	checkDateOrder(sl, in.StartDate, in.DueDate, "due_date", "DueDate", "start_date")
}

func validateTimeOff(sl validator.StructLevel) {
	in := sl.Current().Interface().(TimeOffInput)
	checkDateOrder(sl, in.StartDate, in.EndDate, "end_date", "EndDate", "start_date")
}

// checkDateOrder reports end when it falls before start. Unparseable dates
// are left to the datetime tag.
func checkDateOrder(sl validator.StructLevel, start, end, field, structField, startField string) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return
	}
	if to.Before(from) {
		sl.ReportError(end, field, structField, "gtefield", startField)
	}
}

// Validate checks input against its struct tags before it is sent. The
// first failing field is reported as VALIDATION_ERROR with Field set.
func (c *Client) Validate(input any) error {
	err := c.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apierr.Wrap(apierr.CodeInvalidInput, "Input could not be validated", err)
	}

	fe := fieldErrs[0]
	details := make(map[string]any, len(fieldErrs))
	for _, e := range fieldErrs {
		details[e.Field()] = e.Tag()
	}

	return &apierr.Error{
		Code:    apierr.CodeValidation,
		Message: fieldMessage(fe),
		Field:   fe.Field(),
		Details: details,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
