package dockerignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateMatcher(t *testing.T) {
	dir := t.TempDir()
	contents := "# local notes\n*.md\n\nscratch/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, DockerIgnoreFilename), []byte(contents), 0o644))

	matcher, err := CreateMatcher(dir)
	require.NoError(t, err)
	require.NotNil(t, matcher)

	require.True(t, matcher.Ignored("README.md"))
	require.True(t, matcher.Ignored("docs/usage.md"))
	require.True(t, matcher.Ignored("scratch/out.txt"))
	require.False(t, matcher.Ignored("Dockerfile"))
	require.False(t, matcher.Ignored("conda-base.yml"))
}

func TestCreateMatcherMissingFile(t *testing.T) {
	matcher, err := CreateMatcher(t.TempDir())
	require.NoError(t, err)
	require.Nil(t, matcher)
	require.False(t, matcher.Ignored("anything"))
}
