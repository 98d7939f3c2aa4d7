package store

import "sync"

// depScan tracks one dependency name during the scan phase of
// IsolateGlobalDeps.
type depScan struct {
	lastVersion         string
	hasMultipleVersions bool
}

// IsolateGlobalDeps moves every dependency that has exactly one version
// across the whole package map out of the individual packages and into the
// returned shared set. Dependencies pinned to different versions by different
// consumers stay where they are.
//
// A name cannot be judged until every consumer has been inspected, so the
// scan over the full map completes before any package is mutated. The removal
// phase runs per package, each worker owning its partial result, with the
// partials merged through a set union.
func IsolateGlobalDeps(pkgs SystemPackageMap) StoreSet {
	tracker := make(map[Name]*depScan)

	for _, pkg := range pkgs {
		for key, dep := range pkg.Deps {
			entry, ok := tracker[key]
			if !ok {
				tracker[key] = &depScan{lastVersion: dep.Version}
				continue
			}

			if dep.Version != entry.lastVersion {
				entry.hasMultipleVersions = true
			}
		}
	}

	globalNames := make([]Name, 0, len(tracker))
	for key, scan := range tracker {
		if !scan.hasMultipleVersions {
			globalNames = append(globalNames, key)
		}
	}

	partials := make(chan StoreSet)

	var wg sync.WaitGroup
	for _, pkg := range pkgs {
		wg.Add(1)

		go func(pkg *SystemPackage) {
			defer wg.Done()

			partial := make(StoreSet)
			for _, key := range globalNames {
				if dep, ok := pkg.Deps[key]; ok {
					partial.Insert(dep)
					delete(pkg.Deps, key)
				}
			}

			if len(partial) > 0 {
				partials <- partial
			}
		}(pkg)
	}

	go func() {
		wg.Wait()
		close(partials)
	}()

	global := make(StoreSet)
	for partial := range partials {
		global.Merge(partial)
	}

	return global
}
