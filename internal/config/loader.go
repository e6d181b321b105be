package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. PIMON_INTERVAL.
	EnvPrefix = "PIMON"
	// GlobalConfigDir is the directory for the user config, relative to home.
	GlobalConfigDir = ".config/pimon"
	// GlobalConfigFile is the user config file name.
	GlobalConfigFile = "config.yaml"
)

// Load builds the Config from defaults, an optional YAML file and PIMON_*
// environment variables, in increasing order of precedence.
//
// An empty path means ~/.config/pimon/config.yaml if it exists, or no file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := Find(path)
	if err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+path,
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find resolves the config file location.
// An explicit path must exist; otherwise the global config is used when present.
// Returns the empty string when no file applies.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", nil
	}

	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}

// parseConfig converts the viper state into a validated Config.
func parseConfig(v *viper.Viper, path string) (Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(&cfg); err != nil {
		where := "environment overrides"
		if path != "" {
			where = path
		}
		return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	cfg.Remote.KeyPath = ExpandTilde(cfg.Remote.KeyPath)
	cfg.Remote.KnownHosts = ExpandTilde(cfg.Remote.KnownHosts)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides are picked up by
// Unmarshal even when no file sets them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("cycle_timeout", d.CycleTimeout)
	v.SetDefault("command_timeout", d.CommandTimeout)
	v.SetDefault("cpu_sample", d.CPUSample)
	v.SetDefault("parallel_probes", d.ParallelProbes)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("service.label", d.Service.Label)
	v.SetDefault("ping_target", d.PingTarget)
	v.SetDefault("disk_path", d.DiskPath)
	v.SetDefault("remote.host", d.Remote.Host)
	v.SetDefault("remote.user", d.Remote.User)
	v.SetDefault("remote.port", d.Remote.Port)
	v.SetDefault("remote.key_path", d.Remote.KeyPath)
	v.SetDefault("remote.known_hosts", d.Remote.KnownHosts)
	v.SetDefault("remote.strict_host_key", d.Remote.StrictHostKey)
	v.SetDefault("remote.dial_timeout", d.Remote.DialTimeout)
}
