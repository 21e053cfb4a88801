package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	fornaxerrors "github.com/nasa-fornax/fornax-images/pkg/errors"
	"github.com/nasa-fornax/fornax-images/pkg/global"
)

func TestPush(t *testing.T) {
	b, rec := newTestBuilder()
	require.NoError(t, b.Push(t.Context(), "some-repo:some-tag"))
	require.Equal(t, []string{"docker push some-repo:some-tag"}, rec.Commands())
	require.Equal(t, global.PushTimeout, rec.Calls[0].Options.Timeout)
}

func TestPushFullReference(t *testing.T) {
	b, rec := newTestBuilder()
	require.NoError(t, b.Push(t.Context(), "ghcr.io/nasa-fornax/fornax-images/base_image:main"))
	require.Equal(t, []string{"docker push ghcr.io/nasa-fornax/fornax-images/base_image:main"}, rec.Commands())
}

func TestPushRejectsBadTags(t *testing.T) {
	for _, tag := range []string{
		"some-tag",
		"localhost:5000/some-image",
		"Some-Repo:tag",
		"repo:bad tag",
	} {
		b, rec := newTestBuilder()
		err := b.Push(t.Context(), tag)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tag)
		require.True(t, fornaxerrors.IsConfigError(err))
		require.Empty(t, rec.Calls)
	}
}

func TestPushRegistryPort(t *testing.T) {
	b, rec := newTestBuilder()
	require.NoError(t, b.Push(t.Context(), "localhost:5000/some-image:v1"))
	require.Equal(t, []string{"docker push localhost:5000/some-image:v1"}, rec.Commands())
}
