package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/ariel-frischer/monorel/internal/errors"
)

// Exit codes for the monorel CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure during analysis or release
	ExitFailure = 1

	// ExitInvariantViolation indicates an inconsistent release state
	// requiring human intervention
	ExitInvariantViolation = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitNotRepository indicates the command ran outside a git repository
	ExitNotRepository = 4
)

// ExitError carries a specific exit code through cobra's error return.
// The wrapped error, when present, keeps its message and categorization
// for printing.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err with a specific exit code.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case errors.Argument, errors.Configuration:
			return ExitInvalidArguments
		case errors.Invariant:
			return ExitInvariantViolation
		}
	}
	return ExitFailure
}
