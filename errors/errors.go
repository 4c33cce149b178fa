/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrBackendOp is returned when the underlying store reports a failure
	ErrBackendOp = errors.New("backend operation failed")

	// ErrCorruptValue is returned when a stored value cannot be decoded
	ErrCorruptValue = errors.New("corrupt stored value")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Collection, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// BackendOperationError represents a failure reported by the underlying
// store: constraint violation, connectivity loss, rejected command.
type BackendOperationError struct {
	Op  string
	Key string
	Err error
}

func (e *BackendOperationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s failed for key %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *BackendOperationError) Is(target error) bool {
	return target == ErrBackendOp
}

func (e *BackendOperationError) Unwrap() error {
	return e.Err
}

// CorruptValueError represents a stored value that exists but cannot be
// decompressed or deserialized. It is distinct from NotFoundError so
// callers can tell "never written" from "written but unreadable".
type CorruptValueError struct {
	Key string
	Err error
}

func (e *CorruptValueError) Error() string {
	return fmt.Sprintf("corrupt value for key %q: %v", e.Key, e.Err)
}

func (e *CorruptValueError) Is(target error) bool {
	return target == ErrCorruptValue
}

func (e *CorruptValueError) Unwrap() error {
	return e.Err
}

// InvalidInputError represents an input validation error
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input for %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(collection, key string) error {
	return &NotFoundError{Collection: collection, Key: key}
}

// NewBackendOperationError creates a new BackendOperationError
func NewBackendOperationError(op, key string, err error) error {
	return &BackendOperationError{Op: op, Key: key, Err: err}
}

// NewCorruptValueError creates a new CorruptValueError
func NewCorruptValueError(key string, err error) error {
	return &CorruptValueError{Key: key, Err: err}
}

// NewInvalidInputError creates a new InvalidInputError
func NewInvalidInputError(field, message string) error {
	return &InvalidInputError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBackendOperation checks if an error is a backend operation error
func IsBackendOperation(err error) bool {
	return errors.Is(err, ErrBackendOp)
}

// IsCorruptValue checks if an error is a corrupt value error
func IsCorruptValue(err error) bool {
	return errors.Is(err, ErrCorruptValue)
}

// IsInvalidInput checks if an error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
