package cmd

import (
	"errors"
	"fmt"
)

// Exit codes for hitcmd CLI
const (
	// ExitSuccess indicates the command completed
	ExitSuccess = 0

	// ExitRenderError indicates one or more placeholders rendered as error markers
	ExitRenderError = 1

	// ExitParseError indicates a template placeholder could not be parsed or
	// calls an unknown function
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitInputError indicates a capture, history or template input error
	ExitInputError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the process exit code for a failed command. A nil Err
// exits without printing anything, for failures the output already shows.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// exitCode maps an error returned by a command to the process exit code.
// Errors that were not classified come from cobra itself, such as unknown
// flags or a wrong argument count.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsageError
}
