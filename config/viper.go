package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// loadViperConfig loads the configuration file when one exists. Missing files
// are fine; the defaults from config.go apply. System errors panic since this
// runs on the init path.
func loadViperConfig() {
	configPath := globalConfig.configFilePath

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NIXDIFF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("failed to read config file %s: %w", configPath, err))
	}

	loadedConfig := DefaultConfig().Config
	if err := v.Unmarshal(&loadedConfig); err != nil {
		panic(fmt.Errorf("failed to unmarshal config: %w", err))
	}

	globalConfig.Config = loadedConfig
}
