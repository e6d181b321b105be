package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rileyhilliard/pimon/internal/config"
	"golang.org/x/crypto/ssh"
)

// KeyCheck verifies the private key for the remote endpoint is readable and
// usable without a passphrase.
type KeyCheck struct {
	Path string
}

func (c *KeyCheck) Name() string     { return "ssh_key" }
func (c *KeyCheck) Category() string { return CategorySSH }

func (c *KeyCheck) Run(_ context.Context) CheckResult {
	if c.Path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No key_path set, using IdentityFile from ~/.ssh/config",
		}
	}

	path := config.ExpandTilde(c.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Can't read SSH key " + path,
			Suggestion: "Generate a key with: ssh-keygen -t ed25519",
		}
	}

	if _, err := ssh.ParsePrivateKey(data); err != nil {
		var missing *ssh.PassphraseMissingError
		if stderrors.As(err, &missing) {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    "SSH key " + path + " needs a passphrase",
				Suggestion: "Use an unencrypted key for unattended monitoring",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("SSH key %s is not a valid private key", path),
			Suggestion: "Check remote.key_path points at the private half, not the .pub",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "SSH key found: " + path,
	}
}

// KnownHostsCheck verifies host key verification can run.
type KnownHostsCheck struct {
	Path   string
	Strict bool
}

func (c *KnownHostsCheck) Name() string     { return "known_hosts" }
func (c *KnownHostsCheck) Category() string { return CategorySSH }

func (c *KnownHostsCheck) Run(_ context.Context) CheckResult {
	path := config.ExpandTilde(c.Path)
	if path == "" {
		path = config.ExpandTilde("~/.ssh/known_hosts")
	}

	if _, err := os.Stat(path); err != nil {
		if c.Strict {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    "known_hosts missing: " + path,
				Suggestion: "Connect once with ssh to record the host key",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "known_hosts missing, host keys are not verified",
			Suggestion: "Connect once with ssh to record the host key",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "known_hosts: " + path,
	}
}
