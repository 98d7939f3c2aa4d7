package store

import (
	"slices"
	"strings"
)

// StoreDiff is a detected version change for one identity between two
// generations.
type StoreDiff struct {
	Name    string
	Suffix  string
	VerFrom string
	VerTo   string
}

// NewStoreDiff compares two generations of the same identity. It reports
// false when the versions are equal, and also when the suffixes differ in any
// way: a differently-tagged build output that happens to share a name is not
// a comparable change.
func NewStoreDiff(new, old StorePath) (StoreDiff, bool) {
	if new.Version == old.Version {
		return StoreDiff{}, false
	}

	if new.Suffix != old.Suffix {
		return StoreDiff{}, false
	}

	return StoreDiff{
		Name:    new.Name,
		Suffix:  new.Suffix,
		VerFrom: old.Version,
		VerTo:   new.Version,
	}, true
}

// StoreSetDiffs collects the version changes for every identity present in
// both sets. Identities only present in new are additions, not changes, and
// are skipped.
func StoreSetDiffs(new, old StoreSet) []StoreDiff {
	var diffs []StoreDiff

	for key, newStore := range new {
		oldStore, ok := old[key]
		if !ok {
			continue
		}

		if diff, ok := NewStoreDiff(newStore, oldStore); ok {
			diffs = append(diffs, diff)
		}
	}

	return diffs
}

// PackageDiff bundles the changes of one top-level package: an optional
// change of the package itself and the changes of its pinned dependencies.
// Name is the package's identity key, including the suffix when present.
type PackageDiff struct {
	Name string
	Pkg  *StoreDiff
	Deps []StoreDiff
}

// PackageDiffs compares two generations of the package map. Packages with
// neither a primary nor a dependency change are omitted.
func PackageDiffs(new, old SystemPackageMap) []PackageDiff {
	var diffs []PackageDiff

	for key, newPkg := range new {
		oldPkg, ok := old[key]
		if !ok {
			continue
		}

		var pkgDiff *StoreDiff
		if diff, ok := NewStoreDiff(newPkg.Path, oldPkg.Path); ok {
			pkgDiff = &diff
		}

		depDiffs := StoreSetDiffs(newPkg.Deps, oldPkg.Deps)

		if pkgDiff == nil && len(depDiffs) == 0 {
			continue
		}

		diffs = append(diffs, PackageDiff{
			Name: key,
			Pkg:  pkgDiff,
			Deps: depDiffs,
		})
	}

	return diffs
}

// SortStoreDiffs orders diffs by name ascending.
func SortStoreDiffs(diffs []StoreDiff) {
	slices.SortFunc(diffs, func(a, b StoreDiff) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// SortPackageDiffs orders package diffs for display: packages whose own
// version changed first, then by dependency change count descending, then by
// name ascending. Each package's dependency diffs are ordered by name.
func SortPackageDiffs(diffs []PackageDiff) {
	for i := range diffs {
		SortStoreDiffs(diffs[i].Deps)
	}

	slices.SortFunc(diffs, func(a, b PackageDiff) int {
		switch {
		case a.Pkg != nil && b.Pkg == nil:
			return -1
		case a.Pkg == nil && b.Pkg != nil:
			return 1
		}

		if len(a.Deps) != len(b.Deps) {
			if len(a.Deps) > len(b.Deps) {
				return -1
			}
			return 1
		}

		return strings.Compare(a.Name, b.Name)
	})
}
