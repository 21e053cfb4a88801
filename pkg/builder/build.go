package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/config"
	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

// BuildSpec describes one image build.
type BuildSpec struct {
	Repository string
	// ImagePath is the build context directory holding the Dockerfile.
	ImagePath string
	// Tag is either a bare tag or a full repo:tag reference.
	Tag string
	// BuildArgs are NAME=value pairs, passed in order.
	BuildArgs []string
	// ExtraFlags are extra engine arguments, e.g. "--no-cache --network=host".
	ExtraFlags string
}

// EffectiveTag returns the part of tag after its last colon, or tag itself
// when it has none.
func EffectiveTag(tag string) string {
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// Build builds the image described by spec.
func (b *Builder) Build(ctx context.Context, spec BuildSpec) error {
	cmd, err := b.BuildCommand(spec)
	if err != nil {
		return err
	}
	console.Infof("Building %s ...", spec.ImagePath)
	_, err = b.exec.Run(ctx, cmd, command.RunOptions{Timeout: global.BuildTimeout, Level: console.InfoLevel})
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", spec.ImagePath, err)
	}
	return nil
}

// BuildCommand returns the engine command that builds spec:
//
//	<engine> build [--build-arg K=V]... [extra flags] --tag <tag> <path>
//
// Caller build args come first in the order given, followed by any default
// args the caller did not set.
func (b *Builder) BuildCommand(spec BuildSpec) (command.Command, error) {
	if strings.TrimSpace(spec.ImagePath) == "" {
		return command.Command{}, &ValidationError{Field: "image path", Message: "must not be empty"}
	}
	if strings.TrimSpace(spec.Tag) == "" {
		return command.Command{}, &ValidationError{Field: "tag", Message: "must not be empty"}
	}
	tag := EffectiveTag(spec.Tag)
	if tag == "" {
		return command.Command{}, &ValidationError{Field: "tag", Value: spec.Tag, Message: "has nothing after the colon"}
	}

	buildArgs, err := b.normalizeBuildArgs(spec.BuildArgs)
	if err != nil {
		return command.Command{}, err
	}
	for _, key := range b.defaultArgKeys {
		if hasBuildArg(buildArgs, key) {
			continue
		}
		buildArgs = append(buildArgs, key+"="+defaultArgValue(key, spec.Repository, tag))
	}

	args := []string{"build"}
	for _, arg := range buildArgs {
		args = append(args, "--build-arg", arg)
	}

	extra, err := shlex.Split(spec.ExtraFlags)
	if err != nil {
		return command.Command{}, &ValidationError{Field: "build pars", Value: spec.ExtraFlags, Message: err.Error()}
	}
	args = append(args, extra...)

	if b.keepFullTag {
		tag = spec.Tag
	}
	args = append(args, "--tag", tag, spec.ImagePath)
	return command.New(b.engine, args...), nil
}

// normalizeBuildArgs trims, validates and de-duplicates caller build args.
func (b *Builder) normalizeBuildArgs(in []string) ([]string, error) {
	out := make([]string, 0, len(in)+len(b.defaultArgKeys))
	seen := make(map[string]bool, len(in))
	for _, arg := range in {
		arg = strings.TrimSpace(arg)
		if strings.Count(arg, "=") != 1 {
			return nil, &ValidationError{
				Field:   "build arg",
				Value:   arg,
				Message: "build args should be of the form 'name=value'",
			}
		}
		name, val, _ := strings.Cut(arg, "=")
		if name == "" {
			return nil, &ValidationError{Field: "build arg", Value: arg, Message: "name must not be empty"}
		}
		if b.upperCaseKeys {
			name = strings.ToUpper(name)
		}
		arg = name + "=" + val
		if seen[arg] {
			continue
		}
		seen[arg] = true
		out = append(out, arg)
	}
	return out, nil
}

func hasBuildArg(args []string, key string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, key+"=") {
			return true
		}
	}
	return false
}

func defaultArgValue(key, repository, tag string) string {
	if key == config.ArgRepository {
		return repository
	}
	// IMAGE_TAG and BASE_IMAGE_TAG: dependent images are built FROM the base
	// image carrying the same tag.
	return tag
}
