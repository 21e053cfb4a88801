package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

// MinimumDockerVersion is the first Docker release with BuildKit, which the
// Dockerfiles need for COPY --chmod.
const MinimumDockerVersion = "18.09"

var minimumDockerVersion = version.Must(version.NewVersion(MinimumDockerVersion))

// CheckEngine verifies the Docker daemon is new enough. Other engines are not
// checked, including podman behind a docker shim, whose version numbers are
// podman's own.
func (b *Builder) CheckEngine(ctx context.Context) error {
	if filepath.Base(b.engine) != command.DefaultEngine {
		console.Debugf("Skipping version check for engine %s", b.engine)
		return nil
	}
	cmd := command.New(b.engine, "version", "--format", "{{.Server.Version}}")
	res, err := b.exec.Run(ctx, cmd, command.RunOptions{Timeout: time.Minute, Capture: true})
	if err != nil {
		return fmt.Errorf("failed to query the %s version, is the daemon running? %w", b.engine, err)
	}
	if res == nil {
		return nil
	}

	raw := strings.TrimSpace(res.Stdout)
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s version %q: %w", b.engine, raw, err)
	}
	if v.LessThan(minimumDockerVersion) {
		if b.isPodman(ctx) {
			console.Debugf("%s is podman %s, skipping the Docker version check", b.engine, v)
			return nil
		}
		return fmt.Errorf("%s %s is too old: BuildKit needs %s or newer", b.engine, v, MinimumDockerVersion)
	}
	console.Debugf("Using %s %s", b.engine, v)
	return nil
}

// isPodman reports whether the engine binary identifies itself as podman,
// e.g. "podman version 4.9.3" from the podman-docker shim.
func (b *Builder) isPodman(ctx context.Context) bool {
	res, err := b.exec.Run(ctx, command.New(b.engine, "--version"), command.RunOptions{Timeout: time.Minute, Capture: true})
	if err != nil || res == nil {
		return false
	}
	return strings.Contains(strings.ToLower(res.Stdout), "podman")
}
