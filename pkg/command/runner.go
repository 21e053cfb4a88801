package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

// waitDelay bounds how long Wait blocks on inherited pipes after a timeout kill.
const waitDelay = 5 * time.Second

// Executor is implemented by Runner and by test doubles.
type Executor interface {
	Run(ctx context.Context, cmd Command, opts RunOptions) (*Result, error)
}

// RunOptions control a single execution.
type RunOptions struct {
	// Timeout aborts the command once exceeded. Zero means no timeout.
	Timeout time.Duration
	// Capture collects stdout and stderr into the Result instead of streaming them.
	Capture bool
	// Level is the severity of the "Running" log line. The zero value is debug.
	Level console.Level
}

// Result of a command that ran to completion.
type Result struct {
	Command  Command
	ExitCode int
	// Stdout and Stderr are only set when RunOptions.Capture was requested.
	Stdout string
	Stderr string
}

// Runner executes commands on the host.
type Runner struct {
	DryRun bool
	// Dir is the working directory for commands; empty means the current directory.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
	// Stdout and Stderr receive streamed output; nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer
	// Console receives log lines; nil means console.ConsoleInstance.
	Console *console.Console
}

// NewRunner returns a Runner that executes commands, or only logs them when dryRun is set.
func NewRunner(dryRun bool) *Runner {
	return &Runner{DryRun: dryRun}
}

// Run executes cmd. In dry-run mode the command is logged at debug level and
// Run returns (nil, nil) without executing anything.
func (r *Runner) Run(ctx context.Context, cmd Command, opts RunOptions) (*Result, error) {
	log := r.console()
	if r.DryRun {
		log.Debugf("(dry run) %s", cmd)
		return nil, nil
	}

	log.Log(opts.Level, fmt.Sprintf("Running (timeout: %s): %s", formatTimeout(opts.Timeout), cmd))

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = r.Dir
	c.Env = append(os.Environ(), r.Env...)
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	if opts.Capture {
		c.Stdout = &stdout
		c.Stderr = &stderr
	} else {
		c.Stdout = orDefault(r.Stdout, os.Stdout)
		c.Stderr = orDefault(r.Stderr, os.Stderr)
	}

	err := c.Run()
	if err != nil {
		execErr := &ExecutionError{
			Command:  cmd,
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			execErr.TimedOut = true
		} else if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return nil, execErr
	}

	return &Result{
		Command:  cmd,
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

func (r *Runner) console() *console.Console {
	if r.Console == nil {
		return console.ConsoleInstance
	}
	return r.Console
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return fmt.Sprintf("%ds", int64(d/time.Second))
}
