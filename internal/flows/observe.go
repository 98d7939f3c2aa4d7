// Package flows holds the execution flows shared by the save and diff
// commands. Configuration is passed through the context (Global Config).
package flows

import (
	"context"
	"io"

	"github.com/nixdiff/nixdiff/config"
	"github.com/nixdiff/nixdiff/internal/ui"
	"github.com/nixdiff/nixdiff/nixstore"
	"github.com/nixdiff/nixdiff/snapshot"
	"github.com/nixdiff/nixdiff/store"
)

// Observe opens the configured source and resolves the complete package map,
// rendering progress unless plain output was requested. It returns the
// packages together with the name of the source that produced them.
func Observe(ctx context.Context, cfg *config.RuntimeConfig) (store.SystemPackageMap, string, error) {
	src, err := nixstore.NewSource(nixstore.SourceKind(cfg.Config.Source), cfg.Config.DatabasePath)
	if err != nil {
		return nil, "", err
	}

	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}

	if !cfg.Plain {
		ui.StartProgressWriter()
		defer ui.StopProgressWriter()
	}

	tracker := ui.TrackProgress("Resolving dependency closures", 0)
	defer tracker.MarkAsDone()

	builderConfig := nixstore.DefaultBuilderConfig()
	if cfg.Config.MaxConcurrentLookups > 0 {
		builderConfig.MaxConcurrentLookups = cfg.Config.MaxConcurrentLookups
	}
	builderConfig.OnProgress = func(done, total int) {
		tracker.UpdateTotal(int64(total))
		tracker.SetValue(int64(done))
	}

	pkgs, err := nixstore.BuildSystemPackages(ctx, src, builderConfig)
	if err != nil {
		return nil, "", err
	}

	return pkgs, src.Name(), nil
}

// StatePath resolves where the saved package state lives, preferring an
// explicit override from configuration.
func StatePath(cfg *config.RuntimeConfig) (string, error) {
	if cfg.Config.StatePath != "" {
		return cfg.Config.StatePath, nil
	}

	return snapshot.DefaultPath()
}
