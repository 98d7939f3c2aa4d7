// Package store models parsed Nix store paths and the operations nixdiff
// performs on them: deduplication, global dependency isolation and
// generation-to-generation diffing.
package store

import (
	"strings"
	"unicode"
)

// Name is the identity key of a store path. Two store paths refer to the same
// logical package iff their keys are equal; version and suffix are deliberately
// not part of identity so that a package can be looked up across generations
// after its version changed.
type Name = string

// KeySeparator joins a store's name and suffix into its identity key.
// '|' cannot occur in a store path, so the encoding is unambiguous.
const KeySeparator = "|"

// StorePath is a single parsed /nix/store entry.
type StorePath struct {
	// ID is the store's row id in the Nix database. It is 0 when the store
	// was parsed from command output. Note that ids are not stable across
	// registrations and cannot identify a store persistently.
	ID int64 `msgpack:"id"`

	// Name is the package's logical name, e.g. "wine-wow".
	Name string `msgpack:"name"`

	// Version is free form: "8.4.0", "2019-02-15", "v0.96", "7788-4c59395".
	Version string `msgpack:"version"`

	// Suffix is the trailing alphabetic tag distinguishing build outputs or
	// variants ("bin", "staging") from the version proper. Empty when absent.
	Suffix string `msgpack:"suffix,omitempty"`

	// RegisterTime is the epoch second the store was registered on the
	// system. It is 0 when unknown and is only consulted by Unique.
	RegisterTime int64 `msgpack:"register_time"`

	// Origin is the raw store path this entry was parsed from. It is kept
	// only so collaborators can re-query the store and is not persisted.
	Origin string `msgpack:"-"`
}

// Key returns the identity key of the store: the name alone, or
// "name|suffix" when a suffix was detected. Embedding the suffix keeps two
// outputs of the same package (e.g. ffmpeg vs ffmpeg-bin) from being merged.
func (s StorePath) Key() Name {
	if s.Suffix == "" {
		return s.Name
	}

	return s.Name + KeySeparator + s.Suffix
}

// String renders the store in "name-version[-suffix]" form.
func (s StorePath) String() string {
	if s.Suffix == "" {
		return s.Name + "-" + s.Version
	}

	return s.Name + "-" + s.Version + "-" + s.Suffix
}

// Parse extracts the name, version and optional suffix from a raw store path
// of the form "/nix/store/<hash>-<name>-<version>[-<suffix>]". It reports
// false for paths that do not name a versioned package (patch files,
// derivations, and other artifacts); such paths are skipped, never errors.
func Parse(raw string) (StorePath, bool) {
	stripped, ok := StripPrefix(raw)
	if !ok {
		return StorePath{}, false
	}

	fragments := strings.Split(stripped, "-")
	if len(fragments) < 2 {
		return StorePath{}, false
	}

	// Exactly one separator is usually indicative of a "name-version"
	// format, so take a fast path here.
	if len(fragments) == 2 {
		if !containsDigit(fragments[1]) {
			return StorePath{}, false
		}

		return StorePath{
			Name:    fragments[0],
			Version: fragments[1],
			Origin:  raw,
		}, true
	}

	// A trailing fragment with no digits in it is a suffix, not part of
	// the version.
	var suffix string
	if last := fragments[len(fragments)-1]; isAlphabetic(last) {
		suffix = last
		fragments = fragments[:len(fragments)-1]
	}

	pos := -1
	for i, fragment := range fragments {
		if isVersionString(fragment) {
			pos = i
			break
		}
	}

	if pos < 1 {
		// No version fragment anywhere, or the path starts with one and
		// has no name. Either way this is not a package.
		return StorePath{}, false
	}

	return StorePath{
		Name:    strings.Join(fragments[:pos], "-"),
		Version: strings.Join(fragments[pos:], "-"),
		Suffix:  suffix,
		Origin:  raw,
	}, true
}

// StripPrefix removes the store directory and content hash from a raw store
// path, i.e. everything through the first '-'. It reports false when there is
// no separator or nothing follows it.
func StripPrefix(raw string) (string, bool) {
	idx := strings.IndexByte(raw, '-')
	if idx < 0 || idx+1 >= len(raw) {
		return "", false
	}

	return raw[idx+1:], true
}

// isVersionString reports whether a fragment looks like the start of a
// version: a leading digit, or a 'v' immediately followed by a digit, with
// the remainder restricted to digits, lowercase letters, '.' and '_'.
// A bare "v" is not a version.
func isVersionString(s string) bool {
	if s == "" {
		return false
	}

	rest := s
	switch {
	case s[0] == 'v':
		if len(s) < 2 || !isDigit(s[1]) {
			return false
		}
		rest = s[1:]
	case !isDigit(s[0]):
		return false
	}

	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if isDigit(c) || c == '.' || c == '_' || (c >= 'a' && c <= 'z') {
			continue
		}

		return false
	}

	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func containsDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	return true
}
