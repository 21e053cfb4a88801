// Package errors classifies failures so the CLI can pick an exit status.
package errors

import (
	"errors"
)

// Exit statuses used by the commands.
const (
	ExitFailure       = 1
	ExitConfiguration = 2
)

// ConfigError is implemented by every error caused by invalid input: bad flag
// combinations, malformed build args or tags, unknown image names and bad
// configuration files. No command has run when one of these is returned.
type ConfigError interface {
	error
	ConfigError() // marker method
}

// IsConfigError reports whether err or anything it wraps is a ConfigError.
func IsConfigError(err error) bool {
	var cerr ConfigError
	return errors.As(err, &cerr)
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsConfigError(err):
		return ExitConfiguration
	default:
		return ExitFailure
	}
}
