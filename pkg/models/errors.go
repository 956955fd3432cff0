package models

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
)

// Failure pairs one of the sentinel errors with the message shown to callers.
type Failure struct {
	Kind    error
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Kind
}

func NotFound(message string) error {
	return &Failure{Kind: ErrNotFound, Message: message}
}

func Unauthenticated(message string) error {
	return &Failure{Kind: ErrUnauthenticated, Message: message}
}

func Forbidden(message string) error {
	return &Failure{Kind: ErrForbidden, Message: message}
}

func Conflict(message string) error {
	return &Failure{Kind: ErrConflict, Message: message}
}

func BadRequest(message string) error {
	return &Failure{Kind: ErrBadRequest, Message: message}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field string, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (v *ValidationError) Error() string {
	messages := make([]string, 0, len(v.Fields))
	for _, field := range v.Fields {
		messages = append(messages, field.Message)
	}

	return "validation failed: " + strings.Join(messages, "; ")
}
