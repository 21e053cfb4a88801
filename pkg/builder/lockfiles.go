package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"sigs.k8s.io/yaml"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
	"github.com/nasa-fornax/fornax-images/pkg/util/files"
)

const (
	lockFilePattern = "conda-*lock.yml"
	envFilePattern  = "conda-*.yml"
	defaultEnvName  = "base"
)

var envFileRegex = regexp.MustCompile(`^conda-(.+)\.yml$`)

// LockFile pairs a conda environment file with the lock file generated from it.
type LockFile struct {
	Env      string
	EnvFile  string
	LockFile string
}

// LockFiles lists the environment files in imagePath that are not lock files
// themselves, with the lock file each one produces. Paths are relative to imagePath.
func (b *Builder) LockFiles(imagePath string) ([]LockFile, error) {
	matches, err := doublestar.Glob(os.DirFS(b.path(imagePath)), envFilePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list environment files in %s: %w", imagePath, err)
	}
	sort.Strings(matches)

	var out []LockFile
	for _, envFile := range matches {
		if strings.Contains(envFile, "lock") {
			continue
		}
		env := EnvName(envFile)
		out = append(out, LockFile{
			Env:      env,
			EnvFile:  envFile,
			LockFile: "conda-" + env + "-lock.yml",
		})
	}
	return out, nil
}

// EnvName returns the conda environment name for an environment file name,
// e.g. "notebook" for conda-notebook.yml, and "base" for anything else.
func EnvName(envFile string) string {
	if m := envFileRegex.FindStringSubmatch(filepath.Base(envFile)); m != nil {
		return m[1]
	}
	return defaultEnvName
}

// RemoveLockFiles deletes every conda-*lock.yml in imagePath, so a stale lock
// file cannot leak into the next build.
func (b *Builder) RemoveLockFiles(imagePath string) error {
	console.Infof("Removing the lock files for %s", imagePath)
	dir := b.path(imagePath)
	matches, err := doublestar.Glob(os.DirFS(dir), lockFilePattern)
	if err != nil {
		return fmt.Errorf("failed to list lock files in %s: %w", imagePath, err)
	}
	for _, lockFile := range matches {
		if b.dryRun {
			console.Debugf("(dry run) rm %s", filepath.Join(imagePath, lockFile))
			continue
		}
		console.Infof("Removing %s", filepath.Join(imagePath, lockFile))
		if err := os.Remove(filepath.Join(dir, lockFile)); err != nil {
			return err
		}
	}
	return nil
}

// UpdateLockFiles regenerates the lock files of imagePath by exporting each
// conda environment from the already built image.
func (b *Builder) UpdateLockFiles(ctx context.Context, imagePath, repository, tag string) error {
	console.Infof("Updating the lock files for %s", imagePath)
	lockFiles, err := b.LockFiles(imagePath)
	if err != nil {
		return err
	}
	ref := b.ImageRef(repository, filepath.Base(imagePath), EffectiveTag(tag))

	for _, lf := range lockFiles {
		cmd := command.New(b.engine,
			"run", "--entrypoint=", "--rm", ref,
			"mamba", "env", "export", "-n", lf.Env,
		)
		res, err := b.exec.Run(ctx, cmd, command.RunOptions{
			Timeout: global.ExportTimeout,
			Capture: true,
			Level:   console.InfoLevel,
		})
		if err != nil {
			return fmt.Errorf("failed to export environment %s from %s: %w", lf.Env, ref, err)
		}
		if res == nil || b.dryRun {
			continue
		}

		lock := FilterExport(res.Stdout)
		var parsed map[string]interface{}
		if err := yaml.Unmarshal([]byte(lock), &parsed); err != nil {
			console.Warnf("Exported environment %s is not valid YAML: %s", lf.Env, err)
		}

		path := filepath.Join(b.path(imagePath), lf.LockFile)
		wrote, err := files.WriteIfChanged(path, []byte(lock), 0o644)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if wrote {
			console.Infof("Wrote %s", filepath.Join(imagePath, lf.LockFile))
		} else {
			console.Infof("%s is unchanged", filepath.Join(imagePath, lf.LockFile))
		}
	}
	return nil
}

// FilterExport drops everything before the first line containing "name:",
// which is where `mamba env export` output starts after any entrypoint noise.
func FilterExport(out string) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.Contains(line, "name:") {
			return strings.Join(lines[i:], "\n")
		}
	}
	return ""
}
