package config

// MarshalYAML writes durations in their string form ("5s") so the output of
// "pimon config" can be loaded back as a config file.
func (c Config) MarshalYAML() (interface{}, error) {
	type endpoint struct {
		Host          string `yaml:"host"`
		User          string `yaml:"user"`
		Port          int    `yaml:"port"`
		KeyPath       string `yaml:"key_path"`
		KnownHosts    string `yaml:"known_hosts"`
		StrictHostKey bool   `yaml:"strict_host_key"`
		DialTimeout   string `yaml:"dial_timeout"`
	}
	type document struct {
		Version        int           `yaml:"version"`
		Interval       string        `yaml:"interval"`
		CycleTimeout   string        `yaml:"cycle_timeout"`
		CommandTimeout string        `yaml:"command_timeout"`
		CPUSample      string        `yaml:"cpu_sample"`
		ParallelProbes bool          `yaml:"parallel_probes"`
		Debug          bool          `yaml:"debug"`
		Service        ServiceConfig `yaml:"service"`
		PingTarget     string        `yaml:"ping_target"`
		DiskPath       string        `yaml:"disk_path"`
		Remote         endpoint      `yaml:"remote"`
	}

	return document{
		Version:        c.Version,
		Interval:       c.Interval.String(),
		CycleTimeout:   c.CycleTimeout.String(),
		CommandTimeout: c.CommandTimeout.String(),
		CPUSample:      c.CPUSample.String(),
		ParallelProbes: c.ParallelProbes,
		Debug:          c.Debug,
		Service:        c.Service,
		PingTarget:     c.PingTarget,
		DiskPath:       c.DiskPath,
		Remote: endpoint{
			Host:          c.Remote.Host,
			User:          c.Remote.User,
			Port:          c.Remote.Port,
			KeyPath:       c.Remote.KeyPath,
			KnownHosts:    c.Remote.KnownHosts,
			StrictHostKey: c.Remote.StrictHostKey,
			DialTimeout:   c.Remote.DialTimeout.String(),
		},
	}, nil
}
