package command

import (
	"fmt"
	"strings"
)

// ExecutionError reports a command that exited non-zero, timed out or could
// not be started.
type ExecutionError struct {
	Command  Command
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	var msg string
	switch {
	case e.TimedOut:
		msg = fmt.Sprintf("command timed out: %s", e.Command)
	case e.ExitCode > 0:
		msg = fmt.Sprintf("command failed (exit=%d): %s", e.ExitCode, e.Command)
	default:
		msg = fmt.Sprintf("failed to run command: %s: %v", e.Command, e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
