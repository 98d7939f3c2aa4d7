package store

// StoreSet holds store paths unique by identity key. It is an explicit map
// rather than a set with custom equality so lookups that ignore version and
// suffix are visible at the call site.
type StoreSet map[Name]StorePath

// NewStoreSet builds a set from the given paths. Later occurrences of an
// identity overwrite earlier ones; use Unique for ambiguity-aware insertion.
func NewStoreSet(paths ...StorePath) StoreSet {
	set := make(StoreSet, len(paths))
	for _, path := range paths {
		set.Insert(path)
	}

	return set
}

// Insert adds the path under its identity key.
func (s StoreSet) Insert(path StorePath) {
	s[path.Key()] = path
}

// Contains reports whether an identity key is present.
func (s StoreSet) Contains(key Name) bool {
	_, ok := s[key]
	return ok
}

// Merge unions other into s. Union is commutative over disjoint version
// conflicts only in the sense required by the partitioner: both sides carry
// the same version for any shared key.
func (s StoreSet) Merge(other StoreSet) {
	for key, path := range other {
		s[key] = path
	}
}

// Clone returns a shallow copy of the set.
func (s StoreSet) Clone() StoreSet {
	clone := make(StoreSet, len(s))
	for key, path := range s {
		clone[key] = path
	}

	return clone
}
