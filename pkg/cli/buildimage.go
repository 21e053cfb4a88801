package cli

import (
	"github.com/spf13/cobra"

	"github.com/nasa-fornax/fornax-images/pkg/builder"
	"github.com/nasa-fornax/fornax-images/pkg/config"
)

var (
	singleUpdateLock bool
	singleNoCache    bool
	singleNoBuild    bool
	singleBuildArgs  []string
)

// NewBuildImageCommand returns the command for building one image locally as
// fornax/<image>:latest.
func NewBuildImageCommand() *cobra.Command {
	cmd := newCommand(
		"build-image IMAGE",
		"Build a single image directory locally",
		cobra.ExactArgs(1),
		buildImageCommand,
	)
	addVerboseFlag(cmd)
	addDryRunFlag(cmd)
	cmd.Flags().BoolVar(&singleUpdateLock, "update-lock", false, "Update the conda lock files")
	cmd.Flags().BoolVar(&singleNoCache, "no-cache", false, "Pass --no-cache to the engine")
	cmd.Flags().BoolVar(&singleNoBuild, "no-build", false, "Don't build the image. Useful with --update-lock")
	cmd.Flags().StringArrayVar(&singleBuildArgs, "build-args", []string{}, "Extra build arguments in the form 'name=value'")
	return cmd
}

func buildImageCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".", "")
	if err != nil {
		return err
	}

	exec := newExecutor(dryRunFlag, "", cfg.Environment())
	b := builder.New(exec,
		builder.WithEngine(engineFor(cfg)),
		builder.WithRegistry(""),
		builder.WithFullTag(),
		builder.WithUpperCaseKeys(),
		builder.WithDryRun(dryRunFlag),
	)
	return builder.BuildSingle(cmd.Context(), b, builder.SingleOptions{
		Image:      args[0],
		BuildArgs:  singleBuildArgs,
		UpdateLock: singleUpdateLock,
		NoCache:    singleNoCache,
		NoBuild:    singleNoBuild,
	})
}
