package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/config"
	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

var dryRunFlag bool

// newExecutor is replaced in tests.
var newExecutor = func(dryRun bool, dir string, env []string) command.Executor {
	r := command.NewRunner(dryRun)
	r.Dir = dir
	r.Env = env
	return r
}

func newCommand(use, short string, args cobra.PositionalArgs, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Args:    args,
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// This stops errors being printed because we print them in cmd/*/main.go
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.Verbose || global.Debug || dryRunFlag {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)
	return cmd
}

// normalizeFlagName accepts --update_lock for --update-lock.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func addVerboseFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}

func addDryRunFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRunFlag, "dryrun", false, "Log the commands instead of running them")
}

// engineFor picks the container engine: FORNAX_CONTAINER_ENGINE, then the
// engine key of images.yaml, then docker.
func engineFor(cfg *config.Config) string {
	if engine := os.Getenv(global.EngineEnvVar); engine != "" {
		return engine
	}
	if cfg.Engine != "" {
		return cfg.Engine
	}
	return command.DefaultEngine
}
