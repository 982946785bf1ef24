package cli

import (
	"errors"
	"fmt"

	"github.com/ent0n29/taskctl/internal/observability"
)

const (
	ExitSuccess     = 0
	ExitNotFound    = 1
	ExitInvalidArgs = 2
	ExitIOError     = 3
	ExitConfigError = 4
)

// CommandError carries the process exit code for a failed command.
type CommandError struct {
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &CommandError{Code: ExitInvalidArgs, Err: fmt.Errorf(format, args...)}
}

func ioError(err error) error {
	return &CommandError{Code: ExitIOError, Err: err}
}

// ExitCode maps an error returned by the command tree to a process exit code.
// Errors that cobra raises itself (unknown flags or commands) count as usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr != nil && cmdErr.Code != 0 {
		return cmdErr.Code
	}
	return ExitInvalidArgs
}

func isUsageError(err error) bool {
	return ExitCode(err) == ExitInvalidArgs
}

func outcomeFor(err error) string {
	switch ExitCode(err) {
	case ExitSuccess:
		return observability.OutcomeOK
	case ExitNotFound:
		return observability.OutcomeNotFound
	case ExitInvalidArgs:
		return observability.OutcomeInvalid
	default:
		return observability.OutcomeError
	}
}
