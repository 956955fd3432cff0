package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"severity":         func(s string) bool { return Severity(s).IsValid() },
		"category":         func(s string) bool { return Category(s).IsValid() },
		"status":           func(s string) bool { return Status(s).IsValid() },
		"vehicletype":      func(s string) bool { return VehicleType(s).IsValid() },
		"damagelevel":      func(s string) bool { return DamageLevel(s).IsValid() },
		"weathercondition": func(s string) bool { return WeatherCondition(s).IsValid() },
		"role":             func(s string) bool { return Role(s).IsValid() },
		"username":         usernamePattern.MatchString,
	}
	for tag, check := range enums {
		v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		})
	}

	return v
}

// Validate checks a struct against its validate tags and returns a
// *ValidationError listing every failing field.
func Validate(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := &ValidationError{}
	for _, fieldError := range validationErrors {
		field := fieldPath(fieldError.Namespace())
		result.Fields = append(result.Fields, FieldError{
			Field:   field,
			Message: fieldMessage(field, fieldError),
		})
	}

	return result
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if index := strings.Index(namespace, "."); index >= 0 {
		return namespace[index+1:]
	}
	return namespace
}

func fieldMessage(field string, fieldError validator.FieldError) string {
	label := humanise(fieldError.Field())

	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", label, fieldError.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fieldError.Param())
	case "max":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", label, fieldError.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fieldError.Param())
	case "email":
		return "Please provide a valid email"
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "severity":
		return "Invalid severity level"
	default:
		return fmt.Sprintf("Invalid %s", field)
	}
}

func humanise(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
