package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
const CurrentConfigVersion = 1

// Config holds every tunable of a pimon process. It is loaded once at
// startup and passed by value afterwards; nothing mutates it.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Interval is the fixed delay between the end of one refresh cycle and
	// the start of the next.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// CycleTimeout bounds a whole collection cycle, remote commands included.
	CycleTimeout time.Duration `yaml:"cycle_timeout" mapstructure:"cycle_timeout"`

	// CommandTimeout bounds every local subprocess.
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`

	// CPUSample is how long CPU utilization is sampled for.
	CPUSample time.Duration `yaml:"cpu_sample" mapstructure:"cpu_sample"`

	// ParallelProbes runs the local probe set and the remote probe client
	// concurrently within a cycle.
	ParallelProbes bool `yaml:"parallel_probes" mapstructure:"parallel_probes"`

	Debug bool `yaml:"debug" mapstructure:"debug"`

	Service    ServiceConfig `yaml:"service" mapstructure:"service"`
	PingTarget string        `yaml:"ping_target" mapstructure:"ping_target"`
	DiskPath   string        `yaml:"disk_path" mapstructure:"disk_path"`

	Remote Endpoint `yaml:"remote" mapstructure:"remote"`
}

// ServiceConfig names the local service whose liveness is reported.
type ServiceConfig struct {
	// Name is the systemd unit name, e.g. "smbd".
	Name string `yaml:"name" mapstructure:"name"`

	// Label is shown in the report as "<Label> Status".
	Label string `yaml:"label" mapstructure:"label"`
}

// Endpoint is the one remote machine probed over SSH.
type Endpoint struct {
	// Host is an address, hostname or ~/.ssh/config alias.
	Host string `yaml:"host" mapstructure:"host"`
	User string `yaml:"user" mapstructure:"user"`
	Port int    `yaml:"port" mapstructure:"port"`

	// KeyPath is the private key used for authentication. When empty the
	// IdentityFile from ~/.ssh/config is used, then ~/.ssh/id_rsa.
	KeyPath string `yaml:"key_path" mapstructure:"key_path"`

	KnownHosts string `yaml:"known_hosts" mapstructure:"known_hosts"`

	// StrictHostKey rejects hosts missing from KnownHosts. When false,
	// unknown hosts are accepted but mismatched keys are still rejected.
	StrictHostKey bool `yaml:"strict_host_key" mapstructure:"strict_host_key"`

	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Version:        CurrentConfigVersion,
		Interval:       5 * time.Second,
		CycleTimeout:   4 * time.Second,
		CommandTimeout: 3 * time.Second,
		CPUSample:      time.Second,
		ParallelProbes: true,
		Service: ServiceConfig{
			Name:  "smbd",
			Label: "SMB",
		},
		PingTarget: "8.8.8.8",
		DiskPath:   "/",
		Remote: Endpoint{
			Host:        "192.168.4.114",
			User:        "pkvirus",
			Port:        22,
			KeyPath:     "~/.ssh/id_rsa",
			KnownHosts:  "~/.ssh/known_hosts",
			DialTimeout: 3 * time.Second,
		},
	}
}
