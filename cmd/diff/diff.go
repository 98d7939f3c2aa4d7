package diff

import (
	"context"

	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"

	"github.com/nixdiff/nixdiff/config"
	"github.com/nixdiff/nixdiff/internal/flows"
	"github.com/nixdiff/nixdiff/internal/runlog"
	"github.com/nixdiff/nixdiff/internal/ui"
	"github.com/nixdiff/nixdiff/snapshot"
	"github.com/nixdiff/nixdiff/store"
)

func NewDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show package version changes since the last saved state",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := executeDiffFlow(cmd.Context())
			if err != nil {
				ui.ErrorExit(err)
			}

			return nil
		},
	}
}

// Run executes the diff flow directly. The root command defaults to it when
// invoked without a subcommand.
func Run(ctx context.Context) error {
	return executeDiffFlow(ctx)
}

func executeDiffFlow(ctx context.Context) error {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		ui.Fatalf("Failed to get config: %s", err)
	}

	if cfg.Plain {
		ui.DisableColors()
	}

	path, err := flows.StatePath(cfg)
	if err != nil {
		return err
	}

	state, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	current, sourceName, err := flows.Observe(ctx, cfg)
	if err != nil {
		return err
	}

	// Globally shared dependencies are carved out of both observations so
	// they diff as a single section instead of repeating under every package.
	currentGlobal := store.IsolateGlobalDeps(current)
	savedGlobal := store.IsolateGlobalDeps(state.Packages)

	packageDiffs := store.PackageDiffs(current, state.Packages)
	globalDiffs := store.StoreSetDiffs(currentGlobal, savedGlobal)

	store.SortPackageDiffs(packageDiffs)
	store.SortStoreDiffs(globalDiffs)

	data := &ui.ReportData{
		PackageDiffs: packageDiffs,
		GlobalDiffs:  globalDiffs,
		Source:       sourceName,
	}

	if cfg.Table {
		ui.RenderDiffTable(data)
	} else {
		ui.RenderDiffReport(data)
	}

	appendRunRecord(cfg, state, sourceName, len(packageDiffs), len(globalDiffs))

	return nil
}

// appendRunRecord writes run history. History is best effort and never fails
// the diff.
func appendRunRecord(cfg *config.RuntimeConfig, state *snapshot.State, sourceName string, packageChanges, globalChanges int) {
	logger := runlog.New(cfg.HistoryDir(), cfg.Config.HistoryRetentionDays)

	err := logger.Append(runlog.Record{
		SnapshotID:     state.ID.String(),
		Source:         sourceName,
		PackageChanges: packageChanges,
		GlobalChanges:  globalChanges,
	})
	if err != nil {
		log.Warnf("failed to append run history: %v", err)
	}
}
