// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDuplicateName   = errors.New("duplicate name")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrNotFound        = errors.New("not found")
	ErrConfigInvalid   = errors.New("invalid configuration")
)

// DuplicateNameError reports a collision in a registry namespace. Symbols
// and group names each form one flat namespace per registry.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Entity, e.Name)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// NewDuplicateNameError creates a new DuplicateNameError.
func NewDuplicateNameError(entity, name string) *DuplicateNameError {
	return &DuplicateNameError{
		Entity: entity,
		Name:   name,
	}
}

// InvalidArgumentError represents a constructor or mutator argument that
// failed validation.
type InvalidArgumentError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// NewInvalidArgumentError creates a new InvalidArgumentError.
func NewInvalidArgumentError(field string, value interface{}, message string) *InvalidArgumentError {
	return &InvalidArgumentError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// InvalidStateError represents a lifecycle operation applied in a status
// that does not allow it.
type InvalidStateError struct {
	Op     string
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s in status %s", e.Op, e.Status)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// NewInvalidStateError creates a new InvalidStateError.
func NewInvalidStateError(op, status string) *InvalidStateError {
	return &InvalidStateError{
		Op:     op,
		Status: status,
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
