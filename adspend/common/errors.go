package common

import (
	"fmt"
)

// Process exit codes reported when the dashboard fails to start
const (
	ExitInvalidConfiguration = iota + 1
	ExitDatasetUnavailable
	ExitErrorDB
	ExitTaskInitialization
	ExitAdminError
	ExitUndefined
)

// InitializationError carries the startup failure along with the exit code main should use
type InitializationError struct {
	cause    error
	exitCode int
}

// NewInitError tags cause with an exit code
func NewInitError(cause error, exitCode int) *InitializationError {
	return &InitializationError{cause: cause, exitCode: exitCode}
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("dashboard failed to start: %s", e.cause)
}

func (e *InitializationError) Unwrap() error { return e.cause }

// ExitCode returns the code passed to os.Exit
func (e *InitializationError) ExitCode() int { return e.exitCode }
