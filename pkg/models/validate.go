package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/companion/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a record's struct tags and reports the first violation
// as an INVALID_INPUT error.
func Validate(record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "validation failed")
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	default:
		msg = fmt.Sprintf("%s failed '%s' validation", fe.Field(), fe.Tag())
	}
	return errors.InvalidInput(msg).WithDetail("field", fe.Namespace())
}
