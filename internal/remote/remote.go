// Package remote probes the one remote machine over SSH.
//
// Each Fetch opens a fresh connection, runs a fixed battery of five
// commands in order and closes the connection before returning. Nothing is
// pooled or cached between cycles.
package remote

import (
	"context"
	"strings"
	"time"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/probe"
	"github.com/rileyhilliard/pimon/pkg/sshutil"
)

// Field names, in report order.
const (
	FieldTemperature = "Temperature"
	FieldCPULoad     = "CPU Load"
	FieldFreeDisk    = "Free Disk Space"
	FieldUptime      = "Uptime"
	FieldThrottle    = "Voltage and Throttle Status"
)

// Command is one entry of the remote battery.
type Command struct {
	Name string
	Cmd  string
}

// Battery is the fixed, ordered set of remote commands.
var Battery = []Command{
	{FieldTemperature, "vcgencmd measure_temp"},
	{FieldCPULoad, "cat /proc/loadavg | awk '{print $1,$2,$3}'"},
	{FieldFreeDisk, "df -h / | awk 'NR==2 {print $4}'"},
	{FieldUptime, "uptime -p"},
	{FieldThrottle, "vcgencmd get_throttled"},
}

// Field is one named value of a Report.
type Field struct {
	Name  string
	Value string
}

// Report holds the remote values of one cycle in Battery order.
// A nil *Report means the remote host could not be reached.
type Report struct {
	Fields []Field
}

// Get returns the value for name, or "N/A" when it is missing or empty.
func (r *Report) Get(name string) string {
	if r == nil {
		return probe.NotAvailable
	}
	for _, f := range r.Fields {
		if f.Name == name {
			if f.Value == "" {
				return probe.NotAvailable
			}
			return f.Value
		}
	}
	return probe.NotAvailable
}

// Throttle parses the remote throttle status, if it was read.
func (r *Report) Throttle() (probe.ThrottleStatus, bool) {
	if r == nil {
		return 0, false
	}
	return probe.ParseThrottle(r.Get(FieldThrottle))
}

// DialFunc opens an SSH connection to target.
type DialFunc func(ctx context.Context, target sshutil.Target) (sshutil.SSHClient, error)

// DefaultDial dials with pkg/sshutil.
func DefaultDial(ctx context.Context, target sshutil.Target) (sshutil.SSHClient, error) {
	return sshutil.Dial(ctx, target)
}

// Client fetches a Report from one endpoint.
type Client struct {
	Endpoint config.Endpoint
	Dial     DialFunc
	Log      logger.Logger
}

// NewClient creates a remote client for endpoint using the real SSH dialer.
func NewClient(endpoint config.Endpoint, log logger.Logger) *Client {
	if log == nil {
		log = logger.Noop()
	}
	return &Client{Endpoint: endpoint, Dial: DefaultDial, Log: log}
}

// Target converts the endpoint into a dial target.
func (c *Client) Target() sshutil.Target {
	return sshutil.Target{
		Host:          c.Endpoint.Host,
		User:          c.Endpoint.User,
		Port:          c.Endpoint.Port,
		KeyPath:       c.Endpoint.KeyPath,
		KnownHosts:    c.Endpoint.KnownHosts,
		StrictHostKey: c.Endpoint.StrictHostKey,
		Timeout:       c.Endpoint.DialTimeout,
	}
}

// Fetch connects, runs the battery and disconnects.
//
// A connection, authentication or key-loading failure returns a nil Report
// and the error. Once connected, all five commands are attempted even if
// some fail. A command that could not run leaves its value empty; one that
// exited non-zero keeps whatever it printed.
func (c *Client) Fetch(ctx context.Context) (*Report, error) {
	log := c.Log
	if log == nil {
		log = logger.Noop()
	}
	dial := c.Dial
	if dial == nil {
		dial = DefaultDial
	}

	start := time.Now()
	client, err := dial(ctx, c.Target())
	if err != nil {
		log.Debug("remote %s unreachable: %v", c.Endpoint.Host, err)
		return nil, err
	}
	defer client.Close()
	log.Debug("connected to %s in %s", client.GetAddress(), time.Since(start).Round(time.Millisecond))

	report := &Report{Fields: make([]Field, 0, len(Battery))}
	for _, cmd := range Battery {
		report.Fields = append(report.Fields, Field{Name: cmd.Name, Value: c.run(ctx, log, client, cmd)})
	}
	return report, nil
}

func (c *Client) run(ctx context.Context, log logger.Logger, client sshutil.SSHClient, cmd Command) string {
	stdout, stderr, exitCode, err := client.ExecContext(ctx, cmd.Cmd)
	if err != nil {
		log.Debug("remote %s: %v", cmd.Name, err)
		return ""
	}
	// Whatever the command printed is kept, even on a non-zero exit.
	if exitCode != 0 {
		log.Debug("remote %s exited %d: %s", cmd.Name, exitCode, strings.TrimSpace(string(stderr)))
	}
	return strings.TrimSpace(string(stdout))
}
