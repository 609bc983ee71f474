package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution, including a user stop.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorIO       = 3   // Indicates the sink could not be opened or written.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled before it could start.
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SampleError is a transient failure to read one metric from the system.
// The sampling loop reports it and retries on the next tick.
type SampleError struct {
	// Metric names the reading that failed ("cpu" or "memory").
	Metric string
	// Cause is the underlying error returned by the metrics source.
	Cause error
}

// Error returns a formatted message naming the failed metric.
func (e SampleError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("reading %s usage failed", e.Metric)
	}
	return fmt.Sprintf("reading %s usage: %v", e.Metric, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SampleError) Unwrap() error { return e.Cause }

// SinkError is a fatal failure of the append sink. It ends the run.
type SinkError struct {
	// Op is the sink operation that failed (open, lock, stat, write, sync, close).
	Op string
	// Path is the sink file path.
	Path string
	// Cause is the underlying I/O error.
	Cause error
}

// Error returns a formatted message naming the operation and the path.
func (e SinkError) Error() string {
	return fmt.Sprintf("sink %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SinkError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsTransient reports whether err is a recoverable per-tick failure.
func IsTransient(err error) bool {
	var se SampleError
	return errors.As(err, &se)
}

// IsFatal reports whether err must stop the run.
func IsFatal(err error) bool {
	var se SinkError
	return errors.As(err, &se)
}

// ExitCodeFor maps an error returned by the application to a process exit code.
// A nil error and a context error both map to ExitSuccess: stopping the
// monitor from outside is a normal way to end a run.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil, IsContextError(err):
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case IsFatal(err):
		return ExitErrorIO
	default:
		return ExitErrorGeneric
	}
}
