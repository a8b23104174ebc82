// Package config loads the .rpimon.yaml configuration with defaults merged
// in. Search order: explicit --config path, then the current directory,
// then ~/.config/rpimon/config.yaml.
package config

import (
	"os"
	"path/filepath"

	"github.com/khi48/rpimon/internal/errors"
	"github.com/spf13/viper"
)

const (
	// FileName is the per-directory config file name.
	FileName = ".rpimon.yaml"
	// GlobalDir is the directory for the global config, relative to $HOME.
	GlobalDir = ".config/rpimon"
	// GlobalFile is the global config file name.
	GlobalFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithSuggestion(err, errors.ErrConfig,
				"config file not found",
				"Run 'rpimon init' to create one, or pass --config")
		}
		return nil, errors.WrapWithSuggestion(err, errors.ErrConfig,
			"failed to read config file",
			"Check that "+path+" is valid YAML")
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithSuggestion(err, errors.ErrConfig,
			"invalid config format",
			"Check the YAML structure in "+path)
	}
	return cfg, nil
}

// Find locates the config file. Returns an empty path when no config exists,
// which is not an error: defaults apply.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithSuggestion(err, errors.ErrConfig,
				"specified config file not found: "+explicit,
				"Check the path given to --config")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfig, "cannot determine current directory")
	}

	local := filepath.Join(cwd, FileName)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalDir, GlobalFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults when
// no config file exists.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// setDefaults registers the documented defaults so partial config files
// merge cleanly.
func setDefaults(v *viper.Viper) {
	v.SetDefault("user", "pi")
	v.SetDefault("interval", "5m")
	v.SetDefault("output_dir", "./rpi_logs")
	v.SetDefault("connect_timeout", "10s")
	v.SetDefault("command_timeout", "30s")
	v.SetDefault("insecure_host_key", false)
	v.SetDefault("alerts.cpu_temp_c", 70)
	v.SetDefault("alerts.memory_percent", 90)
	v.SetDefault("alerts.swap_percent", 80)
	v.SetDefault("alerts.disk_percent", 90)
}
