package domain

import (
	"errors"
	"fmt"
)

type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryAuthorization Category = "authorization"
	CategoryState         Category = "state"
	CategoryStorage       Category = "storage"
)

// Error is the single error kind raised by the model layer. The category
// discriminates validation, authorization, state and storage failures without
// introducing separate error types.
type Error struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Err      error    `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Category: CategoryValidation, Message: fmt.Sprintf(format, args...)}
}

func AuthorizationError(format string, args ...interface{}) *Error {
	return &Error{Category: CategoryAuthorization, Message: fmt.Sprintf(format, args...)}
}

func StateError(format string, args ...interface{}) *Error {
	return &Error{Category: CategoryState, Message: fmt.Sprintf(format, args...)}
}

func StorageError(err error, format string, args ...interface{}) *Error {
	return &Error{Category: CategoryStorage, Message: fmt.Sprintf(format, args...), Err: err}
}

// CategoryOf reports the category of a model error, unwrapping as needed.
func CategoryOf(err error) (Category, bool) {
	var modelErr *Error
	if errors.As(err, &modelErr) {
		return modelErr.Category, true
	}
	return "", false
}

func IsCategory(err error, category Category) bool {
	got, ok := CategoryOf(err)
	return ok && got == category
}
