package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPredictionNotFound is returned by repositories when no prediction matches.
var ErrPredictionNotFound = errors.New("prediction not found")

// FieldViolation describes one problem with one input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InputError reports a malformed patient record. It is never retried.
type InputError struct {
	Violations []FieldViolation
}

// NewInputError creates an InputError with a single violation.
func NewInputError(field, message string) *InputError {
	return &InputError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// DataUnavailableError reports that the training dataset or model artifact
// could not be obtained.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable: %s: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err wraps an InputError.
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}

// IsDataUnavailable reports whether err wraps a DataUnavailableError.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}
