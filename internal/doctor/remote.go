package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/rileyhilliard/pimon/internal/remote"
)

// remoteToolCommand checks the remote battery can read the firmware values.
const remoteToolCommand = "command -v vcgencmd"

// remoteCheckTimeout bounds the whole remote check, dial included.
const remoteCheckTimeout = 10 * time.Second

// RemoteCheck connects to the remote endpoint the same way a cycle does and
// checks vcgencmd is present there.
type RemoteCheck struct {
	Endpoint config.Endpoint
	Dial     remote.DialFunc
}

func (c *RemoteCheck) Name() string     { return "remote_" + c.Endpoint.Host }
func (c *RemoteCheck) Category() string { return CategoryRemote }

func (c *RemoteCheck) Run(ctx context.Context) CheckResult {
	rc := remote.NewClient(c.Endpoint, nil)
	if c.Dial != nil {
		rc.Dial = c.Dial
	}

	ctx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()

	start := time.Now()
	client, err := rc.Dial(ctx, rc.Target())
	if err != nil {
		return failure(c.Name(), err)
	}
	defer client.Close()
	latency := time.Since(start)

	_, _, exitCode, err := client.ExecContext(ctx, remoteToolCommand)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s: connected, but couldn't run commands: %s", c.Endpoint.Host, errors.Short(err)),
		}
	}
	if exitCode != 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s: connected, vcgencmd not found", c.Endpoint.Host),
			Suggestion: "Temperature and throttle status will be N/A. Is the remote a Raspberry Pi?",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: connected (%s)", c.Endpoint.Host, latency.Round(time.Millisecond)),
	}
}

// NewChecks builds the full check list for a configuration.
// configPath is the explicit --config value.
func NewChecks(configPath string, cfg config.Config, lookPath LookPathFunc, dial remote.DialFunc) []Check {
	checks := []Check{&ConfigCheck{Path: configPath}}
	checks = append(checks, NewToolChecks(lookPath)...)
	checks = append(checks,
		&KeyCheck{Path: cfg.Remote.KeyPath},
		&KnownHostsCheck{Path: cfg.Remote.KnownHosts, Strict: cfg.Remote.StrictHostKey},
		&RemoteCheck{Endpoint: cfg.Remote, Dial: dial},
	)
	return checks
}
