package sshutil

import (
	"bytes"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
)

// DefaultPort is used when neither the target nor ~/.ssh/config sets one.
const DefaultPort = 22

// Target describes the one endpoint to dial.
type Target struct {
	// Host is an address, hostname or ~/.ssh/config alias.
	Host string
	User string
	// Port of 0 defers to ~/.ssh/config, then DefaultPort.
	Port int
	// KeyPath of "" defers to IdentityFile in ~/.ssh/config, then ~/.ssh/id_rsa.
	KeyPath string

	// KnownHosts is the known_hosts file used for host key verification.
	KnownHosts string
	// StrictHostKey rejects hosts missing from KnownHosts.
	StrictHostKey bool

	// Timeout bounds the TCP connect and SSH handshake.
	Timeout time.Duration

	// ConfigPath overrides ~/.ssh/config.
	ConfigPath string
}

// settings holds the resolved connection parameters.
type settings struct {
	hostname string
	port     string
	user     string
	keyPath  string
}

func (s settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// resolveSettings fills blanks in the target from ~/.ssh/config.
// Explicit target values always win; HostName replaces an alias.
func resolveSettings(t Target) settings {
	s := settings{
		hostname: t.Host,
		user:     t.User,
		keyPath:  expandPath(t.KeyPath),
	}
	if t.Port > 0 {
		s.port = strconv.Itoa(t.Port)
	}

	cfgPath := t.ConfigPath
	if cfgPath == "" {
		cfgPath = filepath.Join(homeDir(), ".ssh", "config")
	}

	// A missing or unparsable config just means no overrides.
	if content, err := preprocessSSHConfig(cfgPath); err == nil {
		if cfg, err := ssh_config.Decode(bytes.NewReader(content)); err == nil {
			if v, _ := cfg.Get(t.Host, "HostName"); v != "" {
				s.hostname = v
			}
			if v, _ := cfg.Get(t.Host, "Port"); v != "" && s.port == "" {
				s.port = v
			}
			if v, _ := cfg.Get(t.Host, "User"); v != "" && s.user == "" {
				s.user = v
			}
			if v, _ := cfg.Get(t.Host, "IdentityFile"); v != "" && s.keyPath == "" {
				s.keyPath = expandPath(v)
			}
		}
	}

	if s.port == "" {
		s.port = strconv.Itoa(DefaultPort)
	}
	if s.user == "" {
		s.user = currentUser()
	}
	if s.keyPath == "" {
		s.keyPath = filepath.Join(homeDir(), ".ssh", "id_rsa")
	}
	return s
}

// preprocessSSHConfig returns the config up to the first Match directive.
// The kevinburke/ssh_config library doesn't support Match.
func preprocessSSHConfig(configPath string) ([]byte, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	var result []string
	for _, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			break
		}
		result = append(result, line)
	}
	return []byte(strings.Join(result, "\n")), nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
