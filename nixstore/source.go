// Package nixstore reads the system's installed store paths and their
// dependency closures, either from the Nix registration database or by
// shelling out to the nix tooling.
package nixstore

import (
	"context"
	"fmt"
	"os"

	"github.com/safedep/dry/log"
	"golang.org/x/sync/errgroup"

	"github.com/nixdiff/nixdiff/store"
)

// Source lists the system's top-level stores and their dependency closures.
type Source interface {
	// Name identifies the source implementation.
	Name() string

	// SystemStores returns the deduplicated set of top-level store paths.
	SystemStores(ctx context.Context) (store.StoreSet, error)

	// Closure returns the raw parsed dependency closure of a store. The
	// listing may include the store itself; the builder excludes it.
	Closure(ctx context.Context, path store.StorePath) ([]store.StorePath, error)
}

// SourceKind selects how system state is observed.
type SourceKind string

const (
	// SourceAuto uses the database when it exists, commands otherwise.
	SourceAuto SourceKind = "auto"

	// SourceDatabase reads the Nix registration database directly.
	SourceDatabase SourceKind = "db"

	// SourceCommand shells out to nixos-option and nix-store.
	SourceCommand SourceKind = "command"
)

// NewSource builds the source matching kind. For SourceAuto the database is
// preferred when present and readable.
func NewSource(kind SourceKind, databasePath string) (Source, error) {
	switch kind {
	case SourceDatabase:
		return NewDatabaseSource(DatabaseSourceConfig{Path: databasePath})
	case SourceCommand:
		return NewCommandSource(DefaultCommandSourceConfig())
	case SourceAuto, "":
		if _, err := os.Stat(databasePath); err == nil {
			src, err := NewDatabaseSource(DatabaseSourceConfig{Path: databasePath})
			if err == nil {
				return src, nil
			}

			log.Warnf("falling back to command source: %v", err)
		}

		return NewCommandSource(DefaultCommandSourceConfig())
	default:
		return nil, fmt.Errorf("unknown source kind: %q", kind)
	}
}

// BuilderConfig controls the closure fan-out in BuildSystemPackages.
type BuilderConfig struct {
	// MaxConcurrentLookups bounds the number of in-flight closure lookups.
	MaxConcurrentLookups int

	// OnProgress, when set, is called after each completed lookup.
	OnProgress func(done, total int)
}

func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MaxConcurrentLookups: 8,
	}
}

// BuildSystemPackages resolves the dependency closure of every top-level
// store and assembles the package map. Lookups run concurrently, each worker
// owning its own result slot; the first failure aborts the run carrying the
// name of the package whose lookup failed.
func BuildSystemPackages(ctx context.Context, src Source, config BuilderConfig) (store.SystemPackageMap, error) {
	stores, err := src.SystemStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing system stores: %w", err)
	}

	log.Debugf("resolving dependency closures for %d stores via %s", len(stores), src.Name())

	paths := make([]store.StorePath, 0, len(stores))
	for _, path := range stores {
		paths = append(paths, path)
	}

	pkgs := make([]*store.SystemPackage, len(paths))
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	if config.MaxConcurrentLookups > 0 {
		g.SetLimit(config.MaxConcurrentLookups)
	}

	progress := make(chan struct{}, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			closure, err := src.Closure(ctx, path)
			if err != nil {
				return ErrClosureLookup.Wrap(fmt.Errorf("package %s: %w", path.Name, err))
			}

			pkgs[i] = store.NewSystemPackage(path, closure)
			progress <- struct{}{}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(progress)
	}()

	for range progress {
		done++
		if config.OnProgress != nil {
			config.OnProgress(done, len(paths))
		}
	}

	if err := <-waitErr; err != nil {
		return nil, err
	}

	return store.NewSystemPackageMap(pkgs...), nil
}
