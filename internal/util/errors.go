package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common error types for the crunch CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCommand indicates a command value that cannot be executed
	ErrInvalidCommand = errors.New("invalid command")

	// ErrSubmissionRejected indicates a command was submitted after shutdown began
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrExecutionFailed indicates a command body returned an error or panicked
	ErrExecutionFailed = errors.New("command execution failed")

	// ErrAggregationFailed indicates a parallel aggregation could not produce a report
	ErrAggregationFailed = errors.New("aggregation failed")

	// ErrShutdownTimeout indicates in-flight work outlived the shutdown grace period
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")
)

// CommandError wraps an error with the identity of the command that produced it
type CommandError struct {
	CommandID string
	Kind      string
	Err       error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s command %s: %v", e.Kind, shortID(e.CommandID), e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *CommandError) Unwrap() error {
	return e.Err
}

// WrapCommandError wraps an error with command context
func WrapCommandError(id, kind string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{
		CommandID: id,
		Kind:      kind,
		Err:       err,
	}
}

// shortID trims a UUID to its first group for log-friendly messages.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors, skipping nils
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errs)),
	}
	for _, err := range errs {
		m.Add(err)
	}
	return m
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	return NewMultiError(errs).ErrorOrNil()
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsCancelled reports whether err stems from cancellation, either ours or the context's
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsTimeout reports whether err stems from a shutdown or context deadline
func IsTimeout(err error) bool {
	return errors.Is(err, ErrShutdownTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsRejected reports whether err is a submission rejection
func IsRejected(err error) bool {
	return errors.Is(err, ErrSubmissionRejected)
}

// FriendlyError converts technical errors to user-facing messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsRejected(err):
		return "Command rejected: the executor is shutting down."
	case errors.Is(err, ErrShutdownTimeout):
		return "Running commands did not finish within the shutdown grace period."
	case errors.Is(err, ErrAggregationFailed):
		return fmt.Sprintf("Aggregation failed, no report was produced: %v", err)
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	case errors.Is(err, ErrInvalidCommand):
		return fmt.Sprintf("Invalid command: %v", err)
	default:
		return err.Error()
	}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
