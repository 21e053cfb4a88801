package builder

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
	"github.com/nasa-fornax/fornax-images/pkg/util/files"
)

// Options for building a set of images.
type Options struct {
	Repository string
	Tag        string
	Push       bool
	UpdateLock bool
	NoBuild    bool
	BuildArgs  []string
	// Images to build; empty means every image in the build order.
	Images []string
	// ExtraFlags are passed to every build. They may not set --tag or --build-arg.
	ExtraFlags string
}

// Validate rejects option combinations before anything runs.
func (o Options) Validate() error {
	if o.NoBuild && o.Push {
		return &FlagConflictError{Message: "--no-build and --push cannot be used together"}
	}
	if strings.Contains(o.ExtraFlags, "--tag") || strings.Contains(o.ExtraFlags, "--build-arg") {
		return &FlagConflictError{Message: "--tag and --build-arg cannot be passed in build-pars"}
	}
	return nil
}

// Run builds, updates lock files for and pushes the requested images, one at
// a time in build order. The first failure stops the run.
func Run(ctx context.Context, b *Builder, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	console.Infof("Repository %s, tag %s", opts.Repository, opts.Tag)
	images := opts.Images
	if len(images) == 0 {
		images = b.Order()
	}
	targets, err := b.BuildsNecessary(opts.Repository, opts.Tag, images)
	if err != nil {
		return err
	}

	for _, t := range targets {
		if !opts.NoBuild {
			if opts.UpdateLock {
				if err := b.RemoveLockFiles(t.Image); err != nil {
					return err
				}
			}
			spec := BuildSpec{
				Repository: opts.Repository,
				ImagePath:  t.Image,
				Tag:        t.Tag,
				BuildArgs:  opts.BuildArgs,
				ExtraFlags: opts.ExtraFlags,
			}
			if err := b.Build(ctx, spec); err != nil {
				return err
			}
		}
		if opts.UpdateLock {
			if err := b.UpdateLockFiles(ctx, t.Image, opts.Repository, t.Tag); err != nil {
				return err
			}
		}
		if opts.Push {
			if err := b.Push(ctx, t.Tag); err != nil {
				return err
			}
		}
	}
	return nil
}

// SingleOptions for building one image directory locally.
type SingleOptions struct {
	Image      string
	BuildArgs  []string
	UpdateLock bool
	NoCache    bool
	NoBuild    bool
}

// LocalRepository is the repository local single-image builds are tagged into.
const LocalRepository = "fornax"

// CheckImageDir verifies imagePath exists and holds a Dockerfile.
func (b *Builder) CheckImageDir(imagePath string) error {
	dir := b.path(imagePath)
	isDir, err := files.IsDir(dir)
	if err != nil {
		return err
	}
	if !isDir {
		return &MissingBuildFileError{Image: imagePath, Path: dir}
	}
	buildFile := filepath.Join(dir, global.BuildFilename)
	exists, err := files.Exists(buildFile)
	if err != nil {
		return err
	}
	if !exists {
		return &MissingBuildFileError{Image: imagePath, Path: buildFile}
	}
	console.Debugf("Found %s", buildFile)
	return nil
}

// BuildSingle builds one image as fornax/<image>:latest on the host network.
// b should be created with WithRegistry(""), WithFullTag and WithUpperCaseKeys.
func BuildSingle(ctx context.Context, b *Builder, opts SingleOptions) error {
	console.Debugf("Working on image %s ...", opts.Image)
	if err := b.CheckImageDir(opts.Image); err != nil {
		return err
	}

	tag := b.ImageRef(LocalRepository, filepath.Base(opts.Image), "latest")
	flags := "--network=host --progress=plain"
	if opts.NoCache {
		flags += " --no-cache"
	}

	if !opts.NoBuild {
		if opts.UpdateLock {
			if err := b.RemoveLockFiles(opts.Image); err != nil {
				return err
			}
		}
		spec := BuildSpec{
			Repository: LocalRepository,
			ImagePath:  opts.Image,
			Tag:        tag,
			BuildArgs:  opts.BuildArgs,
			ExtraFlags: flags,
		}
		if err := b.Build(ctx, spec); err != nil {
			return err
		}
	}
	if opts.UpdateLock {
		return b.UpdateLockFiles(ctx, opts.Image, LocalRepository, tag)
	}
	return nil
}
