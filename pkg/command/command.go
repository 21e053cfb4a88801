package command

import (
	"strings"
)

// Command is a program name plus its arguments.
type Command struct {
	Name string
	Args []string
}

// New returns a Command for name with args.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the full argument vector, program name first.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command the way it would be typed in a shell. Arguments
// are quoted only when they contain characters a shell would interpret.
func (c Command) String() string {
	return QuoteArgs(c.Argv())
}

const shellSpecial = " \t\n\"'`$\\*?[]{}()<>|&;#~"

// QuoteArgs joins args with spaces, single-quoting the ones that need it.
func QuoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, shellSpecial) {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
