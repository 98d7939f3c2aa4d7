// Package config holds the global nixdiff configuration, loaded from an
// optional YAML file and overridable with flags.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Allow overriding the config path from the environment.
	CONFIG_DIR_ENV_KEY = "NIXDIFF_CONFIG_DIR"

	// Config path is computed as the user config directory + this relative
	// path when not overridden by the environment variable.
	CONFIG_DEFAULT_HOME_RELATIVE_PATH = "nixdiff"

	// Config file name.
	CONFIG_FILE_NAME = "config.yml"
)

// Config is the persistable part of the configuration.
type Config struct {
	// DatabasePath is the Nix registration database to read.
	DatabasePath string `mapstructure:"database_path"`

	// StatePath overrides where the saved package state lives. Empty means
	// the default data directory.
	StatePath string `mapstructure:"state_path"`

	// Source selects how system state is observed: auto, db or command.
	Source string `mapstructure:"source"`

	// MaxConcurrentLookups bounds concurrent dependency closure lookups.
	MaxConcurrentLookups int `mapstructure:"max_concurrent_lookups"`

	// HistoryRetentionDays is how long run history entries are kept.
	HistoryRetentionDays int `mapstructure:"history_retention_days"`
}

// RuntimeConfig is the configuration used at runtime: the loaded Config plus
// values that only make sense per invocation.
type RuntimeConfig struct {
	Config Config

	// Plain disables colored output.
	Plain bool

	// Table renders the diff as a summary table instead of lines.
	Table bool

	// Internal values computed at startup, accessed via methods.
	configDir      string
	configFilePath string
	historyDir     string
}

// ConfigFilePath returns the path to the config file.
func (r *RuntimeConfig) ConfigFilePath() string {
	return r.configFilePath
}

// HistoryDir returns the directory run history is appended under.
func (r *RuntimeConfig) HistoryDir() string {
	return r.historyDir
}

// DefaultConfig is the fail safe baseline before any file or flag applies.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Config: Config{
			DatabasePath:         "/nix/var/nix/db/db.sqlite",
			Source:               "auto",
			MaxConcurrentLookups: 8,
			HistoryRetentionDays: 90,
		},
	}
}

// globalConfig is the process-wide configuration.
var globalConfig *RuntimeConfig

func init() {
	initConfig()
}

// initConfig is idempotent so tests can re-run it.
func initConfig() {
	defaultConfig := DefaultConfig()
	globalConfig = &defaultConfig

	configDir, err := configDir()
	if err != nil {
		panic(fmt.Errorf("failed to get config directory: %w", err))
	}

	globalConfig.configDir = configDir
	globalConfig.configFilePath = filepath.Join(configDir, CONFIG_FILE_NAME)
	globalConfig.historyDir = filepath.Join(configDir, "history")

	loadViperConfig()
}

// Get returns the global configuration, never nil.
func Get() *RuntimeConfig {
	return globalConfig
}

type contextKey struct{}

// Inject stores the runtime configuration in a context for subcommands.
func (r *RuntimeConfig) Inject(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext retrieves the runtime configuration injected by the root
// command.
func FromContext(ctx context.Context) (*RuntimeConfig, error) {
	cfg, ok := ctx.Value(contextKey{}).(*RuntimeConfig)
	if !ok {
		return nil, fmt.Errorf("no configuration in context")
	}

	return cfg, nil
}

// configDir computes the path to the config directory.
func configDir() (string, error) {
	if dir := os.Getenv(CONFIG_DIR_ENV_KEY); dir != "" {
		return dir, nil
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user config directory: %w", err)
	}

	return filepath.Join(userConfigDir, CONFIG_DEFAULT_HOME_RELATIVE_PATH), nil
}
