package save

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nixdiff/nixdiff/config"
	"github.com/nixdiff/nixdiff/internal/flows"
	"github.com/nixdiff/nixdiff/internal/ui"
	"github.com/nixdiff/nixdiff/snapshot"
)

func NewSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current package state to diff against later",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := executeSaveFlow(cmd.Context())
			if err != nil {
				ui.ErrorExit(err)
			}

			return nil
		},
	}
}

func executeSaveFlow(ctx context.Context) error {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		ui.Fatalf("Failed to get config: %s", err)
	}

	if cfg.Plain {
		ui.DisableColors()
	}

	pkgs, sourceName, err := flows.Observe(ctx, cfg)
	if err != nil {
		return err
	}

	path, err := flows.StatePath(cfg)
	if err != nil {
		return err
	}

	state := snapshot.New(sourceName, pkgs)
	if err := state.Save(path); err != nil {
		return err
	}

	fmt.Printf("Saved the state of %s packages to %s\n",
		ui.Colors.Blue("%d", len(pkgs)), ui.Colors.Bold("%s", path))

	return nil
}
