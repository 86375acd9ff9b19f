// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"
	"fmt"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, action in flight).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a remote confirmation or network error.
	BackendError = 3
)

// Error carries an exit code through code that only returns errors,
// such as cobra RunE functions. The message has already been printed.
type Error struct {
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Wrap returns nil for Success and an *Error otherwise.
func Wrap(code int) error {
	if code == Success {
		return nil
	}
	return &Error{Code: code}
}

// FromError maps err to an exit code: Success for nil, the carried code for
// an *Error, UserError for anything else.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return UserError
}
