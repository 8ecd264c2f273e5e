// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrUnsupportedCombination = errors.New("unsupported option combination")
	ErrConfigInvalid          = errors.New("invalid configuration")
	ErrNotFound               = errors.New("not found")
	ErrDatabaseError          = errors.New("database error")
)

// ValidationError represents a rejected input parameter.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Kind    error // ErrInvalidParameter or ErrUnsupportedCombination
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// NewValidationError creates a ValidationError classified as ErrInvalidParameter.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Kind:    ErrInvalidParameter,
	}
}

// NewUnsupportedError creates a ValidationError classified as ErrUnsupportedCombination.
func NewUnsupportedError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Kind:    ErrUnsupportedCombination,
	}
}

// IsValidation reports whether err was caused by rejected user input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidParameter) || errors.Is(err, ErrUnsupportedCombination)
}

// DataError represents a persistence error.
type DataError struct {
	Operation string
	ID        string
	Message   string
	Err       error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Operation, e.ID, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Operation, e.ID, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(operation, id, message string, err error) *DataError {
	return &DataError{
		Operation: operation,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
