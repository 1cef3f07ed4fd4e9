package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxTextLength bounds the number of characters in a todo's text.
const MaxTextLength = 100

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the create payload.
func (c CreateTodo) Validate() error { return validateStruct(c) }

// Validate checks the fields present in the update payload.
func (u UpdateTodo) Validate() error { return validateStruct(u) }

// Validate checks the user payload.
func (c CreateUser) Validate() error { return validateStruct(c) }

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError{Reason: err.Error()}
	}
	fe := fieldErrs[0]
	return ValidationError{Field: fe.Field(), Reason: reasonFor(fe)}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "can not be empty"
	case "max":
		return fmt.Sprintf("over text length (max %s characters)", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
