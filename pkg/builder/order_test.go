package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	fornaxerrors "github.com/nasa-fornax/fornax-images/pkg/errors"
)

func TestBuildsNecessaryReorders(t *testing.T) {
	b, _ := newTestBuilder(WithOrder([]string{"base_image", "heasoft", "tractor"}))

	targets, err := b.BuildsNecessary("nasa-fornax/fornax-images", "main", []string{"tractor", "base_image"})
	require.NoError(t, err)
	require.Equal(t, []Target{
		{Image: "base_image", Tag: "ghcr.io/nasa-fornax/fornax-images/base_image:main"},
		{Image: "tractor", Tag: "ghcr.io/nasa-fornax/fornax-images/tractor:main"},
	}, targets)
}

func TestBuildsNecessaryDefaultOrder(t *testing.T) {
	b, _ := newTestBuilder()
	targets, err := b.BuildsNecessary("org/repo", "v1", b.Order())
	require.NoError(t, err)
	require.Len(t, targets, 2)
	require.Equal(t, "base_image", targets[0].Image)
	require.Equal(t, "tractor", targets[1].Image)
}

func TestBuildsNecessaryUnknownImage(t *testing.T) {
	b, _ := newTestBuilder()
	_, err := b.BuildsNecessary("org/repo", "v1", []string{"base_image", "heasoft"})
	var unknown *UnknownImageError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "heasoft", unknown.Name)
	require.Equal(t, 2, fornaxerrors.ExitCode(err))
}

func TestImageRef(t *testing.T) {
	b, _ := newTestBuilder()
	require.Equal(t, "ghcr.io/org/repo/tractor:v1", b.ImageRef("org/repo", "tractor", "v1"))

	b, _ = newTestBuilder(WithRegistry(""))
	require.Equal(t, "fornax/tractor:latest", b.ImageRef("fornax", "tractor", "latest"))

	b, _ = newTestBuilder(WithRegistry("localhost:5000/"))
	require.Equal(t, "localhost:5000/org/tractor:v1", b.ImageRef("/org/", "tractor", "v1"))
}
