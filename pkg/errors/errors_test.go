package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type badInput struct{}

func (badInput) Error() string { return "bad input" }
func (badInput) ConfigError()  {}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	require.Equal(t, ExitConfiguration, ExitCode(badInput{}))
	require.Equal(t, ExitConfiguration, ExitCode(fmt.Errorf("while building: %w", badInput{})))
}
