package main

import (
	"os"

	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"

	"github.com/nixdiff/nixdiff/cmd/diff"
	"github.com/nixdiff/nixdiff/cmd/save"
	"github.com/nixdiff/nixdiff/cmd/version"
	"github.com/nixdiff/nixdiff/config"
	"github.com/nixdiff/nixdiff/internal/ui"
)

var debug bool

func main() {
	cmd := &cobra.Command{
		Use:   "nixdiff",
		Short: "Show NixOS package version changes between system updates",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				os.Setenv("APP_LOG_LEVEL", "debug")
			}

			log.InitZapLogger("nixdiff", "")

			cmd.SetContext(config.Get().Inject(cmd.Context()))
		},
		// Running nixdiff without a subcommand diffs against the saved state.
		RunE: func(cmd *cobra.Command, args []string) error {
			err := diff.Run(cmd.Context())
			if err != nil {
				ui.ErrorExit(err)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	config.ApplyFlags(cmd.PersistentFlags())

	cmd.AddCommand(save.NewSaveCommand())
	cmd.AddCommand(diff.NewDiffCommand())
	cmd.AddCommand(version.NewVersionCommand())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
