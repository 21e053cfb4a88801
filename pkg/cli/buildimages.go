package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nasa-fornax/fornax-images/pkg/builder"
	"github.com/nasa-fornax/fornax-images/pkg/config"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

var (
	buildPush            bool
	buildUpdateLock      bool
	buildNoBuild         bool
	buildArgs            []string
	buildImages          []string
	buildPars            string
	buildRoot            string
	buildConfigPath      string
	buildSkipEngineCheck bool
)

// NewBuildImagesCommand returns the command CI uses to build, and optionally
// push, every image of the repository in build order.
func NewBuildImagesCommand() *cobra.Command {
	cmd := newCommand(
		"buildimages REPOSITORY TAG",
		"Build the images in build order, optionally updating lock files and pushing",
		cobra.MinimumNArgs(2),
		buildImagesCommand,
	)
	cmd.Long = `Build the images in build order.

REPOSITORY is the GitHub repository name, e.g. nasa-fornax/fornax-images, and
TAG the registry tag, e.g. the branch name. Images are tagged
<registry>/REPOSITORY/<image>:TAG.

--images and --build-args take one value each and can be repeated or, for
--images, comma separated. Further space separated values are accepted too:
"--images base_image tractor" and "--build-args A=1 B=2".`
	addVerboseFlag(cmd)
	addDryRunFlag(cmd)
	cmd.Flags().BoolVar(&buildPush, "push", false, "Push the images after building them")
	cmd.Flags().BoolVar(&buildUpdateLock, "update-lock", false, "Regenerate the conda lock files from the built images")
	cmd.Flags().BoolVar(&buildNoBuild, "no-build", false, "Don't build the images (incompatible with --push)")
	cmd.Flags().StringArrayVar(&buildArgs, "build-args", []string{}, "Extra build argument in the form 'name=value', repeatable")
	cmd.Flags().StringSliceVar(&buildImages, "images", []string{}, "Images to build, e.g. 'base_image,tractor' or 'base_image tractor'. Defaults to all")
	cmd.Flags().StringVar(&buildPars, "build-pars", "", "Arguments passed directly to the engine's build command")
	cmd.Flags().StringVar(&buildRoot, "root", ".", "Directory holding the image directories")
	cmd.Flags().StringVar(&buildConfigPath, "config", "", "Path to images.yaml, defaults to <root>/images.yaml")
	cmd.Flags().BoolVar(&buildSkipEngineCheck, "skip-engine-check", false, "Don't check the container engine version")
	return cmd
}

func buildImagesCommand(cmd *cobra.Command, args []string) error {
	if err := spreadExtraArgs(cmd, args[2:]); err != nil {
		return err
	}
	opts := builder.Options{
		Repository: args[0],
		Tag:        args[1],
		Push:       buildPush,
		UpdateLock: buildUpdateLock,
		NoBuild:    buildNoBuild,
		BuildArgs:  buildArgs,
		Images:     buildImages,
		ExtraFlags: buildPars,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	console.Debugf("repository: %s, tag: %s, push: %t, update-lock: %t, no-build: %t, dryrun: %t",
		opts.Repository, opts.Tag, opts.Push, opts.UpdateLock, opts.NoBuild, dryRunFlag)

	cfg, err := config.Load(buildRoot, buildConfigPath)
	if err != nil {
		return err
	}

	exec := newExecutor(dryRunFlag, buildRoot, cfg.Environment())
	b := builder.New(exec,
		builder.FromConfig(cfg),
		builder.WithEngine(engineFor(cfg)),
		builder.WithFullTag(),
		builder.WithRoot(buildRoot),
		builder.WithDryRun(dryRunFlag),
	)

	if !dryRunFlag && !buildSkipEngineCheck {
		if err := b.CheckEngine(cmd.Context()); err != nil {
			return err
		}
	}
	return builder.Run(cmd.Context(), b, opts)
}

// spreadExtraArgs hands positional values after REPOSITORY TAG to --build-args
// when they look like name=value, and to --images otherwise, so both flags
// also take space separated lists.
func spreadExtraArgs(cmd *cobra.Command, extra []string) error {
	for _, arg := range extra {
		switch {
		case strings.Contains(arg, "=") && cmd.Flags().Changed("build-args"):
			buildArgs = append(buildArgs, arg)
		case cmd.Flags().Changed("images"):
			buildImages = append(buildImages, arg)
		default:
			return fmt.Errorf("unexpected argument %q: expected REPOSITORY TAG", arg)
		}
	}
	return nil
}
