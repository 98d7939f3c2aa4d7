// Package snapshot persists one complete observation of the system's
// packages so a later run can diff against it.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nixdiff/nixdiff/store"
	"github.com/nixdiff/nixdiff/usefulerror"
)

// StateFileName is the snapshot file kept in the data directory.
const StateFileName = "packages.mpack"

var (
	ErrNoState = usefulerror.Useful().
			WithCode("state_missing").
			WithHumanError("No saved package state was found.").
			WithHelp("Run `nixdiff save` before updating your system, then run `nixdiff` again afterwards.").
			Msg("no saved state")

	ErrStateIO = usefulerror.Useful().
			WithCode("state_io_failed").
			WithHumanError("The package state file could not be read or written.").
			WithHelp("Check permissions on the nixdiff data directory.").
			Msg("state file io failed")

	ErrStateDecode = usefulerror.Useful().
			WithCode("state_decode_failed").
			WithHumanError("The saved package state could not be decoded.").
			WithHelp("The state file may be from an incompatible nixdiff version or corrupted. Run `nixdiff save` to write a fresh one.").
			Msg("failed to decode state")
)

// State is one saved observation. Packages are stored pre-partition so the
// global dependency isolation can be re-run at diff time.
type State struct {
	ID        uuid.UUID              `msgpack:"id"`
	CreatedAt time.Time              `msgpack:"created_at"`
	Source    string                 `msgpack:"source"`
	Packages  store.SystemPackageMap `msgpack:"packages"`
}

// New builds a State for the given package map.
func New(source string, pkgs store.SystemPackageMap) *State {
	return &State{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Packages:  pkgs,
	}
}

// Save writes the state as MessagePack, creating parent directories as
// needed. The write goes through a temp file and rename so a crashed run
// never leaves a truncated state behind.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrStateIO.Wrap(fmt.Errorf("creating data directory: %w", err))
	}

	raw, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return ErrStateIO.Wrap(fmt.Errorf("writing %s: %w", tmp, err))
	}

	if err := os.Rename(tmp, path); err != nil {
		return ErrStateIO.Wrap(fmt.Errorf("renaming %s: %w", tmp, err))
	}

	return nil
}

// Load reads a previously saved state. A missing file yields ErrNoState so
// the CLI can tell the user to save first.
func Load(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoState.Wrap(err)
		}

		return nil, ErrStateIO.Wrap(fmt.Errorf("reading %s: %w", path, err))
	}

	var state State
	if err := msgpack.Unmarshal(raw, &state); err != nil {
		return nil, ErrStateDecode.Wrap(err)
	}

	return &state, nil
}

// DefaultPath is the state file location inside the user data directory,
// honoring XDG_DATA_HOME on Linux.
func DefaultPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, StateFileName), nil
}

func dataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "nixdiff"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "nixdiff"), nil
}
