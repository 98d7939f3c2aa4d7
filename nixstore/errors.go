package nixstore

import (
	"github.com/nixdiff/nixdiff/usefulerror"
)

var (
	ErrDatabaseOpen = usefulerror.Useful().
			WithCode("db_open_failed").
			WithHumanError("The Nix database could not be opened.").
			WithHelp("Reading /nix/var/nix/db/db.sqlite directly usually requires root. Re-run with sudo, or use --source command to shell out to nix-store instead.").
			Msg("failed to open nix database")

	ErrDatabaseQuery = usefulerror.Useful().
			WithCode("db_query_failed").
			WithHumanError("Querying the Nix database failed.").
			WithHelp("The database may be locked by a running nix build. Retry once the build finishes.").
			Msg("failed to query nix database")

	ErrClosureLookup = usefulerror.Useful().
			WithCode("closure_lookup_failed").
			WithHumanError("Resolving a package's dependency closure failed.").
			WithHelp("The store may have been garbage collected mid-run. Retry after the current nix operation finishes.").
			Msg("failed to resolve dependency closure")

	ErrCommandFailed = usefulerror.Useful().
			WithCode("command_failed").
			WithHumanError("An external nix command failed.").
			WithHelp("Make sure nix-store and nixos-option are on PATH and the Nix daemon is running.").
			Msg("failed to execute command")

	ErrMalformedOutput = usefulerror.Useful().
				WithCode("malformed_output").
				WithHumanError("Received unexpected output from nixos-option.").
				WithHelp("This usually means the nixos-option output format changed. Please report the output you are seeing.").
				Msg("received unexpected command output")
)
