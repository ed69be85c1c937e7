package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envConfigPath     = "TOASTDEMO_CONFIG"
	defaultConfigName = "config.yaml"
)

// DefaultPath resolves where the config file is looked up when no path is
// given: $TOASTDEMO_CONFIG, then $XDG_CONFIG_HOME/toastdemo/config.yaml,
// then ~/.config/toastdemo/config.yaml.
func DefaultPath() (string, error) {
	if explicit := os.Getenv(envConfigPath); explicit != "" {
		return explicit, nil
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, "toastdemo", defaultConfigName), nil
}
