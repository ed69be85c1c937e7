package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TOASTDEMO"

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"log-file":    "log_file",
	"max-visible": "max_visible",
	"desktop":     "desktop_notify",
	"mouse":       "mouse",
}

// Load builds configuration from defaults, the optional config file, env vars
// and flags, and returns the path it looked at.
// Precedence: defaults < config file < env vars < flags set by the caller.
// A missing config file is not an error. Logging is configured from the
// result, so Load itself never logs.
func Load(explicitPath string, flags *pflag.FlagSet) (Config, string, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			if f := flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return cfg, "", fmt.Errorf("bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	configPath := explicitPath
	if configPath == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return cfg, "", err
		}
		configPath = resolved
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.MaxVisible < 0 {
		cfg.MaxVisible = 0
	}

	return cfg, configPath, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("max_visible", cfg.MaxVisible)
	v.SetDefault("desktop_notify", cfg.DesktopNotify)
	v.SetDefault("mouse", cfg.Mouse)
	v.SetDefault("status_timeout", cfg.StatusTimeout)
	v.SetDefault("loading_resolve", cfg.LoadingResolve)
	v.SetDefault("lifetimes.success", cfg.Lifetimes.Success)
	v.SetDefault("lifetimes.error", cfg.Lifetimes.Error)
	v.SetDefault("lifetimes.warning", cfg.Lifetimes.Warning)
	v.SetDefault("lifetimes.info", cfg.Lifetimes.Info)
	v.SetDefault("lifetimes.loading", cfg.Lifetimes.Loading)
}
