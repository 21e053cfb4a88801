package changes

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/dockerignore"
	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
	"github.com/nasa-fornax/fornax-images/pkg/util/files"
)

// Detector finds the image directories touched by a git event.
type Detector struct {
	exec   command.Executor
	root   string
	dryRun bool

	respectDockerignore bool
}

// NewDetector returns a Detector for the repository containing root. Fetches
// go through exec; the diff itself is computed in-process.
func NewDetector(exec command.Executor, root string, dryRun bool) *Detector {
	if root == "" {
		root = "."
	}
	return &Detector{exec: exec, root: root, dryRun: dryRun}
}

// RespectDockerignore makes changes to files excluded by an image's
// .dockerignore not count. The Dockerfile and .dockerignore always count.
func (d *Detector) RespectDockerignore(respect bool) *Detector {
	d.respectDockerignore = respect
	return d
}

// Detect returns the sorted names of the top-level directories that changed
// in ev and hold a Dockerfile. It never returns nil on success.
func (d *Detector) Detect(ctx context.Context, ev *Event) ([]string, error) {
	console.Debugf("Event: %s", ev.Name)

	var fetch string
	switch ev.Name {
	case PullRequest:
		fetch = ev.Payload.BaseRef
	case Push:
		fetch = ev.Payload.Before
	}
	if fetch != "" {
		cmd := command.New("git", "fetch", "origin", fetch)
		if _, err := d.exec.Run(ctx, cmd, command.RunOptions{Timeout: global.GitTimeout, Capture: true}); err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", fetch, err)
		}
	}
	if d.dryRun {
		console.Debugf("(dry run) skipping the diff for %s", ev.Name)
		return []string{}, nil
	}

	repo, err := git.PlainOpenWithOptions(d.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open the git repository at %s: %w", d.root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	top := wt.Filesystem.Root()

	var paths []string
	switch ev.Name {
	case PullRequest:
		paths, err = changedPaths(repo, "origin/"+ev.Payload.BaseRef, "HEAD")
	case Push:
		paths, err = changedPaths(repo, ev.Payload.Before, ev.Payload.After)
	default:
		paths, err = trackedPaths(repo)
	}
	if err != nil {
		return nil, err
	}
	return imageDirs(top, paths, d.respectDockerignore)
}

func changedPaths(repo *git.Repository, from, to string) ([]string, error) {
	fromTree, err := treeAt(repo, from)
	if err != nil {
		return nil, err
	}
	toTree, err := treeAt(repo, to)
	if err != nil {
		return nil, err
	}
	diff, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}

	var paths []string
	for _, change := range diff {
		if change.From.Name != "" {
			paths = append(paths, change.From.Name)
		}
		if change.To.Name != "" && change.To.Name != change.From.Name {
			paths = append(paths, change.To.Name)
		}
	}
	console.Debugf("%d paths changed between %s and %s", len(paths), from, to)
	return paths, nil
}

func treeAt(repo *git.Repository, rev string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("revision %s not found, was it fetched? %w", rev, err)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	return commit.Tree()
}

func trackedPaths(repo *git.Repository) ([]string, error) {
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read the git index: %w", err)
	}
	paths := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		paths = append(paths, e.Name)
	}
	return paths, nil
}

// imageDirs maps slash separated repository paths to their top-level
// directory and keeps the directories that hold a Dockerfile. Root-level
// files are skipped, and so are files excluded by the directory's
// .dockerignore when respectIgnore is set.
func imageDirs(top string, paths []string, respectIgnore bool) ([]string, error) {
	matchers := map[string]*dockerignore.Matcher{}
	seen := map[string]bool{}
	for _, p := range paths {
		dir, rest, ok := strings.Cut(p, "/")
		if !ok || seen[dir] {
			continue
		}
		if !respectIgnore || alwaysInContext(rest) {
			seen[dir] = true
			continue
		}

		matcher, cached := matchers[dir]
		if !cached {
			var err error
			matcher, err = dockerignore.CreateMatcher(filepath.Join(top, dir))
			if err != nil {
				return nil, err
			}
			matchers[dir] = matcher
		}
		if matcher.Ignored(rest) {
			console.Debugf("Ignoring %s", p)
			continue
		}
		seen[dir] = true
	}

	out := []string{}
	for dir := range seen {
		exists, err := files.Exists(filepath.Join(top, dir, global.BuildFilename))
		if err != nil {
			return nil, err
		}
		if exists {
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out, nil
}

// alwaysInContext reports whether rest is a file the engine reads regardless
// of .dockerignore.
func alwaysInContext(rest string) bool {
	return rest == global.BuildFilename || rest == dockerignore.DockerIgnoreFilename
}
