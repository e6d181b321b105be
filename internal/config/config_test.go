package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at a temp dir so the user's real config is never read.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pimon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, 4*time.Second, cfg.CycleTimeout)
	assert.Equal(t, 3*time.Second, cfg.CommandTimeout)
	assert.Equal(t, time.Second, cfg.CPUSample)
	assert.True(t, cfg.ParallelProbes)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "smbd", cfg.Service.Name)
	assert.Equal(t, "SMB", cfg.Service.Label)
	assert.Equal(t, "8.8.8.8", cfg.PingTarget)
	assert.Equal(t, "/", cfg.DiskPath)
	assert.Equal(t, "192.168.4.114", cfg.Remote.Host)
	assert.Equal(t, "pkvirus", cfg.Remote.User)
	assert.Equal(t, 22, cfg.Remote.Port)
	assert.False(t, cfg.Remote.StrictHostKey)
	assert.NoError(t, Validate(cfg))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), cfg.Remote.KeyPath)
	assert.Equal(t, filepath.Join(home, ".ssh", "known_hosts"), cfg.Remote.KnownHosts)
}

func TestLoad_File(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), `
interval: 10s
cycle_timeout: 8s
parallel_probes: false
service:
  name: nginx
  label: Web
remote:
  host: pi.local
  user: pi
  port: 2222
  key_path: /keys/pi_ed25519
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.Equal(t, 8*time.Second, cfg.CycleTimeout)
	assert.False(t, cfg.ParallelProbes)
	assert.Equal(t, "nginx", cfg.Service.Name)
	assert.Equal(t, "Web", cfg.Service.Label)
	assert.Equal(t, "pi.local", cfg.Remote.Host)
	assert.Equal(t, "pi", cfg.Remote.User)
	assert.Equal(t, 2222, cfg.Remote.Port)
	assert.Equal(t, "/keys/pi_ed25519", cfg.Remote.KeyPath)

	// Unset keys keep their defaults
	assert.Equal(t, 3*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "8.8.8.8", cfg.PingTarget)
}

func TestLoad_GlobalConfig(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, GlobalConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte("ping_target: 1.1.1.1\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1", cfg.PingTarget)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("PIMON_INTERVAL", "30s")
	t.Setenv("PIMON_REMOTE_HOST", "10.0.0.9")
	t.Setenv("PIMON_DEBUG", "true")

	path := writeConfig(t, t.TempDir(), "remote:\n  host: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, "10.0.0.9", cfg.Remote.Host, "env should win over the file")
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), "interval: [oops\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidValues(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), "interval: 2s\ncycle_timeout: 3s\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle_timeout")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "future version", mutate: func(c *Config) { c.Version = 99 }, wantErr: "newer"},
		{name: "zero interval", mutate: func(c *Config) { c.Interval = 0 }, wantErr: "interval"},
		{name: "cycle longer than interval", mutate: func(c *Config) { c.CycleTimeout = 10 * time.Second }, wantErr: "cycle_timeout"},
		{name: "zero command timeout", mutate: func(c *Config) { c.CommandTimeout = 0 }, wantErr: "command_timeout"},
		{name: "cpu sample too long", mutate: func(c *Config) { c.CPUSample = 4 * time.Second }, wantErr: "cpu_sample"},
		{name: "empty service", mutate: func(c *Config) { c.Service.Name = "" }, wantErr: "service.name"},
		{name: "empty host", mutate: func(c *Config) { c.Remote.Host = "" }, wantErr: "remote.host"},
		{name: "port zero", mutate: func(c *Config) { c.Remote.Port = 0 }, wantErr: "remote.port"},
		{name: "port too large", mutate: func(c *Config) { c.Remote.Port = 70000 }, wantErr: "remote.port"},
		{name: "zero dial timeout", mutate: func(c *Config) { c.Remote.DialTimeout = 0 }, wantErr: "dial_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home := isolateHome(t)

	assert.Equal(t, "", ExpandTilde(""))
	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), ExpandTilde("~/.ssh/id_rsa"))
	assert.Equal(t, "/etc/pimon", ExpandTilde("/etc/pimon"))
	assert.Equal(t, "~other/x", ExpandTilde("~other/x"))
}
