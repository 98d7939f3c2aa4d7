package store

import (
	"slices"
	"strings"
)

// DuplicateWindow is the registration interval, in seconds, within which two
// differing versions of the same store are treated as artifacts of a single
// system update rather than an actual upgrade.
const DuplicateWindow = 3600

// Unique returns the set of stores that have exactly one authoritative
// version.
//
// A name registered with differing versions within DuplicateWindow of itself
// is ambiguous: there is no way to persistently identify a store across
// updates other than its name, so neither version is kept. When the
// registrations are at least DuplicateWindow apart, the later one wins.
// Stores without registration times fall into the first case, which favors
// omitting a name over guessing its version.
func Unique(paths []StorePath) StoreSet {
	// Descending registration order makes the "existing entry is the newer
	// one" rule below hold regardless of input ordering. Ties fall back to
	// version and origin so shuffled input produces identical results.
	sorted := slices.Clone(paths)
	slices.SortFunc(sorted, func(a, b StorePath) int {
		if a.RegisterTime != b.RegisterTime {
			if a.RegisterTime > b.RegisterTime {
				return -1
			}
			return 1
		}

		if c := strings.Compare(a.Version, b.Version); c != 0 {
			return c
		}

		return strings.Compare(a.Origin, b.Origin)
	})

	unique := make(StoreSet, len(sorted))
	ambiguous := make(map[Name]struct{})

	for _, path := range sorted {
		key := path.Key()

		if _, ok := ambiguous[key]; ok {
			continue
		}

		existing, ok := unique[key]
		if !ok {
			unique[key] = path
			continue
		}

		if existing.Version == path.Version {
			// Re-registration of the same version, nothing to resolve.
			continue
		}

		if existing.RegisterTime-path.RegisterTime < DuplicateWindow {
			delete(unique, key)
			ambiguous[key] = struct{}{}
			continue
		}

		// Registered a full update apart: the existing (newer) entry is
		// authoritative.
	}

	return unique
}
