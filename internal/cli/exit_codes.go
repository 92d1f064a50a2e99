package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the docgate CLI. They support CI/CD composition: the gate
// outcome is distinguishable from usage problems.
const (
	// ExitSuccess indicates the gate passed.
	ExitSuccess = 0
	// ExitGateFailed indicates at least one artifact had a Critical finding.
	ExitGateFailed = 1
	// ExitInvalidArguments indicates bad arguments or broken configuration.
	ExitInvalidArguments = 3
)

// exitError carries an exit code through cobra's error return.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates an error that maps to the given exit code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode extracts the exit code from an error. Nil means success;
// non-exit errors map to ExitInvalidArguments.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitInvalidArguments
}
