package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sshPort is the local port whose established connections are counted.
const sshPort = "22"

// Internet sends a single echo request to the configured target.
// No retry; any failure means down.
func (l *Local) Internet(ctx context.Context) bool {
	wait := int(l.cfg.CommandTimeout / time.Second)
	if wait < 1 {
		wait = 1
	}

	res, err := l.runner.Run(ctx, "ping", "-c", "1", "-W", strconv.Itoa(wait), l.cfg.PingTarget)
	if err != nil {
		l.log.Debug("couldn't run ping: %v", err)
		return false
	}
	if !res.Success() {
		l.log.Debug("ping %s exited %d", l.cfg.PingTarget, res.ExitCode)
		return false
	}
	return true
}

// Connections is the set of established inbound SSH connections.
type Connections struct {
	// Details holds one "<local> <-> <remote>" entry per connection.
	Details []string
	// OK is false when neither netstat nor the kernel table could be read.
	OK bool
}

// Count returns the number of connections.
func (c Connections) Count() int {
	return len(c.Details)
}

// CountString renders the count, or N/A when unavailable.
func (c Connections) CountString() string {
	if !c.OK {
		return NotAvailable
	}
	return strconv.Itoa(c.Count())
}

// ParseNetstat extracts established connections on local port 22 from
// "netstat -tn" output.
//
// Column contract: fields are whitespace separated; only lines with at least
// six fields whose first field starts with "tcp" are considered. Field 3 is
// the local address, field 4 the foreign address and field 5 the state.
// The port is whatever follows the last ':' of the local address, which
// covers both IPv4 ("10.0.0.2:22") and IPv6 ("::ffff:10.0.0.2:22") forms.
// Headers and malformed lines are skipped.
func ParseNetstat(output string) Connections {
	conns := Connections{OK: true, Details: []string{}}

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 6 || !strings.HasPrefix(fields[0], "tcp") {
			continue
		}
		local, remote, state := fields[3], fields[4], fields[5]
		if state != "ESTABLISHED" {
			continue
		}
		if portOf(local) != sshPort {
			continue
		}
		conns.Details = append(conns.Details, formatPair(local, remote))
	}
	return conns
}

func portOf(addr string) string {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return ""
	}
	return addr[i+1:]
}

func formatPair(local, remote string) string {
	return fmt.Sprintf("%s <-> %s", local, remote)
}

// SSHConnections lists established connections to the local SSH port.
// netstat is tried first; when it can't run, the kernel connection table
// is read through the Stats source instead.
func (l *Local) SSHConnections(ctx context.Context) Connections {
	res, err := l.runner.Run(ctx, "netstat", "-tn")
	if err == nil && res.Success() {
		return ParseNetstat(string(res.Stdout))
	}
	if err != nil {
		l.log.Debug("couldn't run netstat: %v", err)
	} else {
		l.log.Debug("netstat exited %d", res.ExitCode)
	}

	socks, err := l.stats.TCPConnections(ctx)
	if err != nil {
		l.log.Debug("couldn't read tcp connection table: %v", err)
		return Connections{}
	}

	conns := Connections{OK: true, Details: []string{}}
	for _, s := range socks {
		if s.Status != "ESTABLISHED" || strconv.Itoa(int(s.LocalPort)) != sshPort {
			continue
		}
		conns.Details = append(conns.Details, formatPair(
			fmt.Sprintf("%s:%d", s.LocalIP, s.LocalPort),
			fmt.Sprintf("%s:%d", s.RemoteIP, s.RemotePort),
		))
	}
	return conns
}
