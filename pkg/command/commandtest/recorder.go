// Package commandtest provides a recording command.Executor for tests.
package commandtest

import (
	"context"

	"github.com/nasa-fornax/fornax-images/pkg/command"
)

// Call is one recorded invocation.
type Call struct {
	Command command.Command
	Options command.RunOptions
}

// Recorder records every command it is asked to run. Handler, when set,
// decides the outcome; otherwise every command succeeds with empty output.
type Recorder struct {
	Calls   []Call
	Handler func(cmd command.Command) (*command.Result, error)
}

func (r *Recorder) Run(ctx context.Context, cmd command.Command, opts command.RunOptions) (*command.Result, error) {
	r.Calls = append(r.Calls, Call{Command: cmd, Options: opts})
	if r.Handler != nil {
		return r.Handler(cmd)
	}
	return &command.Result{Command: cmd}, nil
}

// Commands returns the recorded commands rendered as strings.
func (r *Recorder) Commands() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Command.String()
	}
	return out
}
