package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nasa-fornax/fornax-images/pkg/changes"
	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

var (
	changedRoot                string
	changedRespectDockerignore bool
)

// NewChangedImagesCommand returns the command that prints, as a JSON array,
// the image directories changed by the GitHub Actions event in JSONFILE.
func NewChangedImagesCommand() *cobra.Command {
	cmd := newCommand(
		"changed-images JSONFILE",
		"Print the images changed by a GitHub Actions event",
		cobra.ExactArgs(1),
		changedImagesCommand,
	)
	addDryRunFlag(cmd)
	cmd.Flags().BoolVar(&global.Debug, "debug", false, "Print debug messages")
	cmd.Flags().StringVar(&changedRoot, "root", ".", "Directory inside the git repository")
	cmd.Flags().BoolVar(&changedRespectDockerignore, "respect-dockerignore", false, "Don't count changes to files excluded by an image's .dockerignore")
	return cmd
}

func changedImagesCommand(cmd *cobra.Command, args []string) error {
	ev, err := changes.LoadEvent(args[0])
	if err != nil {
		return err
	}
	console.Debugf("jsonfile: %s, event_name: %s, dryrun: %t", args[0], ev.Name, dryRunFlag)

	exec := newExecutor(dryRunFlag, changedRoot, nil)
	dirs, err := changes.NewDetector(exec, changedRoot, dryRunFlag).
		RespectDockerignore(changedRespectDockerignore).
		Detect(cmd.Context(), ev)
	if err != nil {
		return err
	}

	out, err := json.Marshal(dirs)
	if err != nil {
		return err
	}
	console.Debugf("Changed images: %s", out)
	console.Output(string(out))
	return nil
}
