package config

import "github.com/spf13/pflag"

// ApplyFlags binds the runtime-overridable settings to the given flag set.
// These flags are a local concern of the config package; commands call this
// to pick them up.
func ApplyFlags(flags *pflag.FlagSet) {
	flags.StringVar(&globalConfig.Config.Source, "source", globalConfig.Config.Source,
		"How to observe the system: auto, db or command")
	flags.StringVar(&globalConfig.Config.DatabasePath, "db", globalConfig.Config.DatabasePath,
		"Path to the Nix registration database")
	flags.StringVar(&globalConfig.Config.StatePath, "state", globalConfig.Config.StatePath,
		"Path to the saved package state file")
	flags.BoolVar(&globalConfig.Plain, "plain", false, "Disable colored output")
	flags.BoolVar(&globalConfig.Table, "table", false, "Render the diff as a summary table")
}
