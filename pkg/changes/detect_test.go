package changes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/command/commandtest"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) write(files map[string]string) {
	r.t.Helper()
	for name, contents := range files {
		path := filepath.Join(r.dir, filepath.FromSlash(name))
		require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(r.t, os.WriteFile(path, []byte(contents), 0o644))
	}
}

func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	require.NoError(r.t, wt.AddWithOptions(&git.AddOptions{All: true}))
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(r.t, err)
	return hash
}

// seed creates the initial commit shared by every test.
func (r *testRepo) seed() plumbing.Hash {
	r.write(map[string]string{
		"README.md":                 "# images\n",
		"base_image/Dockerfile":     "FROM scratch\n",
		"base_image/.dockerignore":  "*.md\n",
		"base_image/conda-base.yml": "name: base\n",
		"tractor/Dockerfile":        "FROM base_image\n",
		"tractor/conda-base.yml":    "name: base\n",
		"docs/index.md":             "docs\n",
	})
	return r.commit("initial")
}

func TestDetectPullRequest(t *testing.T) {
	r := newTestRepo(t)
	base := r.seed()
	require.NoError(t, r.repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "main"), base)))

	r.write(map[string]string{
		"README.md":              "# fornax images\n",
		"tractor/conda-base.yml": "name: base\ndependencies: [numpy]\n",
		"base_image/notes.md":    "ignored by .dockerignore\n",
		"docs/index.md":          "more docs\n",
	})
	r.commit("update tractor")

	rec := &commandtest.Recorder{}
	ev := &Event{Name: PullRequest, Payload: Payload{BaseRef: "main"}}
	dirs, err := NewDetector(rec, r.dir, false).Detect(t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, []string{"base_image", "tractor"}, dirs)

	require.Equal(t, []string{"git fetch origin main"}, rec.Commands())
	require.True(t, rec.Calls[0].Options.Capture)

	// base_image/notes.md is excluded by base_image/.dockerignore
	dirs, err = NewDetector(&commandtest.Recorder{}, r.dir, false).RespectDockerignore(true).Detect(t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, []string{"tractor"}, dirs)
}

func TestDetectAllowListDockerignore(t *testing.T) {
	r := newTestRepo(t)
	r.write(map[string]string{
		"base_image/Dockerfile":     "FROM scratch\n",
		"base_image/.dockerignore":  "*\n!conda-base.yml\n",
		"base_image/conda-base.yml": "name: base\n",
	})
	first := r.commit("initial")

	r.write(map[string]string{"base_image/Dockerfile": "FROM scratch\nRUN true\n"})
	second := r.commit("edit Dockerfile")

	r.write(map[string]string{"base_image/.dockerignore": "*\n!conda-base.yml\n!start.sh\n"})
	third := r.commit("edit .dockerignore")

	r.write(map[string]string{"base_image/README.md": "notes\n"})
	fourth := r.commit("add notes")

	for _, respect := range []bool{false, true} {
		detect := func(before, after plumbing.Hash) []string {
			ev := &Event{Name: Push, Payload: Payload{Before: before.String(), After: after.String()}}
			dirs, err := NewDetector(&commandtest.Recorder{}, r.dir, false).RespectDockerignore(respect).Detect(t.Context(), ev)
			require.NoError(t, err)
			return dirs
		}
		require.Equal(t, []string{"base_image"}, detect(first, second), "respect=%t", respect)
		require.Equal(t, []string{"base_image"}, detect(second, third), "respect=%t", respect)
		if respect {
			require.Empty(t, detect(third, fourth))
		} else {
			require.Equal(t, []string{"base_image"}, detect(third, fourth))
		}
	}
}

func TestDetectPush(t *testing.T) {
	r := newTestRepo(t)
	before := r.seed()
	r.write(map[string]string{
		"base_image/Dockerfile": "FROM scratch\nRUN true\n",
		"tractor/extra.sh":      "echo hi\n",
		"new_image/build.sh":    "no Dockerfile here\n",
	})
	after := r.commit("touch both images")

	rec := &commandtest.Recorder{}
	ev := &Event{Name: Push, Payload: Payload{Before: before.String(), After: after.String()}}
	dirs, err := NewDetector(rec, r.dir, false).Detect(t.Context(), ev)
	require.NoError(t, err)
	require.Equal(t, []string{"base_image", "tractor"}, dirs)
	require.Equal(t, []string{"git fetch origin " + before.String()}, rec.Commands())
}

func TestDetectPushNothingRelevant(t *testing.T) {
	r := newTestRepo(t)
	before := r.seed()
	r.write(map[string]string{"README.md": "changed\n"})
	after := r.commit("docs only")

	dirs, err := NewDetector(&commandtest.Recorder{}, r.dir, false).Detect(t.Context(),
		&Event{Name: Push, Payload: Payload{Before: before.String(), After: after.String()}})
	require.NoError(t, err)
	require.NotNil(t, dirs)
	require.Empty(t, dirs)
}

func TestDetectOtherEventListsTrackedImages(t *testing.T) {
	r := newTestRepo(t)
	r.seed()

	rec := &commandtest.Recorder{}
	dirs, err := NewDetector(rec, r.dir, false).Detect(t.Context(), &Event{Name: "workflow_dispatch"})
	require.NoError(t, err)
	require.Equal(t, []string{"base_image", "tractor"}, dirs)
	require.Empty(t, rec.Calls)
}

func TestDetectFromSubdirectory(t *testing.T) {
	r := newTestRepo(t)
	r.seed()

	dirs, err := NewDetector(&commandtest.Recorder{}, filepath.Join(r.dir, "tractor"), false).Detect(t.Context(), &Event{Name: "schedule"})
	require.NoError(t, err)
	require.Equal(t, []string{"base_image", "tractor"}, dirs)
}

func TestDetectDryRun(t *testing.T) {
	rec := &commandtest.Recorder{}
	rec.Handler = func(cmd command.Command) (*command.Result, error) {
		return nil, nil
	}
	// no repository is opened in dry run
	dirs, err := NewDetector(rec, t.TempDir(), true).Detect(t.Context(), &Event{Name: PullRequest, Payload: Payload{BaseRef: "main"}})
	require.NoError(t, err)
	require.Equal(t, []string{}, dirs)
	require.Equal(t, []string{"git fetch origin main"}, rec.Commands())
}

func TestDetectFetchFailure(t *testing.T) {
	rec := &commandtest.Recorder{}
	rec.Handler = func(cmd command.Command) (*command.Result, error) {
		return nil, &command.ExecutionError{Command: cmd, ExitCode: 128}
	}
	_, err := NewDetector(rec, t.TempDir(), false).Detect(t.Context(), &Event{Name: Push, Payload: Payload{Before: "aaa", After: "bbb"}})
	var execErr *command.ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestDetectMissingBaseRef(t *testing.T) {
	r := newTestRepo(t)
	r.seed()
	_, err := NewDetector(&commandtest.Recorder{}, r.dir, false).Detect(t.Context(), &Event{Name: PullRequest, Payload: Payload{BaseRef: "develop"}})
	require.Error(t, err)
}
