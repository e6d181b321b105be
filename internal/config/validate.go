package config

import (
	"fmt"

	"github.com/rileyhilliard/pimon/internal/errors"
)

// Validate checks the config for values pimon can't run with.
func Validate(cfg Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than this pimon supports (%d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pimon or lower the version field")
	}

	if cfg.Interval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval must be positive, got %s", cfg.Interval),
			"Set interval to something like 5s")
	}

	if cfg.CycleTimeout <= 0 || cfg.CycleTimeout > cfg.Interval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("cycle_timeout %s must be positive and no longer than interval %s", cfg.CycleTimeout, cfg.Interval),
			"A cycle has to finish before the next one is due")
	}

	if cfg.CommandTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("command_timeout must be positive, got %s", cfg.CommandTimeout),
			"Try 2s to 5s")
	}

	if cfg.CPUSample < 0 || cfg.CPUSample >= cfg.CycleTimeout {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("cpu_sample %s must be shorter than cycle_timeout %s", cfg.CPUSample, cfg.CycleTimeout),
			"The default of 1s works for most setups")
	}

	if cfg.Service.Name == "" {
		return errors.New(errors.ErrConfig,
			"service.name is empty",
			"Name the systemd unit to watch, e.g. smbd")
	}

	if cfg.Remote.Host == "" {
		return errors.New(errors.ErrConfig,
			"remote.host is empty",
			"Set remote.host to the address or SSH alias of the remote machine")
	}

	if cfg.Remote.Port < 1 || cfg.Remote.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("remote.port %d is out of range", cfg.Remote.Port),
			"SSH normally listens on port 22")
	}

	if cfg.Remote.DialTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"remote.dial_timeout must be positive",
			"Try 3s")
	}

	return nil
}
