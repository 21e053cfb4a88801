package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nasa-fornax/fornax-images/pkg/command"
)

func TestCheckEngine(t *testing.T) {
	for _, tt := range []struct {
		version string
		ok      bool
	}{
		{"24.0.7\n", true},
		{"20.10.21+dfsg1", true},
		{"18.09.0", true},
		{"17.12.1-ce", false},
		{"not-a-version", false},
	} {
		b, rec := newTestBuilder()
		rec.Handler = func(cmd command.Command) (*command.Result, error) {
			return &command.Result{Command: cmd, Stdout: tt.version}, nil
		}
		err := b.CheckEngine(t.Context())
		if tt.ok {
			require.NoError(t, err, tt.version)
		} else {
			require.Error(t, err, tt.version)
		}
		require.Equal(t, "docker version --format '{{.Server.Version}}'", rec.Commands()[0])
	}
}

func TestCheckEnginePodmanShim(t *testing.T) {
	b, rec := newTestBuilder()
	rec.Handler = func(cmd command.Command) (*command.Result, error) {
		if cmd.Args[0] == "--version" {
			return &command.Result{Command: cmd, Stdout: "podman version 4.9.3\n"}, nil
		}
		return &command.Result{Command: cmd, Stdout: "4.9.3\n"}, nil
	}
	require.NoError(t, b.CheckEngine(t.Context()))
	require.Equal(t, []string{
		"docker version --format '{{.Server.Version}}'",
		"docker --version",
	}, rec.Commands())
}

func TestCheckEngineOldDockerIsNotPodman(t *testing.T) {
	b, rec := newTestBuilder()
	rec.Handler = func(cmd command.Command) (*command.Result, error) {
		if cmd.Args[0] == "--version" {
			return &command.Result{Command: cmd, Stdout: "Docker version 17.03.2-ce, build f5ec1e2\n"}, nil
		}
		return &command.Result{Command: cmd, Stdout: "17.03.2-ce\n"}, nil
	}
	require.ErrorContains(t, b.CheckEngine(t.Context()), "too old")
	require.Len(t, rec.Calls, 2)
}

func TestCheckEngineSkipsOtherEngines(t *testing.T) {
	b, rec := newTestBuilder(WithEngine("podman"))
	require.NoError(t, b.CheckEngine(t.Context()))
	require.Empty(t, rec.Calls)
}

func TestCheckEngineDryRun(t *testing.T) {
	b, rec := newTestBuilder()
	rec.Handler = func(cmd command.Command) (*command.Result, error) {
		return nil, nil
	}
	require.NoError(t, b.CheckEngine(t.Context()))
}

func TestCheckEngineDaemonDown(t *testing.T) {
	b, rec := newTestBuilder()
	rec.Handler = func(cmd command.Command) (*command.Result, error) {
		return nil, &command.ExecutionError{Command: cmd, ExitCode: 1}
	}
	require.Error(t, b.CheckEngine(t.Context()))
}
