// Package probe implements the local probe set: OS counters read through
// gopsutil and short-lived command-line tools (vcgencmd, systemctl, ping,
// netstat) run with a bounded timeout.
//
// No probe returns an error. Each one degrades to an N/A sample, a false
// flag or an unknown state, and logs the cause at debug level.
package probe

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/exec"
	"github.com/rileyhilliard/pimon/internal/logger"
)

// Local runs the local probe set.
type Local struct {
	cfg    config.Config
	runner exec.Runner
	stats  Stats
	log    logger.Logger
}

// Option customizes a Local.
type Option func(*Local)

// WithRunner replaces the command runner.
func WithRunner(r exec.Runner) Option {
	return func(l *Local) { l.runner = r }
}

// WithStats replaces the OS instrumentation source.
func WithStats(s Stats) Option {
	return func(l *Local) { l.stats = s }
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Local) { l.log = log }
}

// NewLocal creates the local probe set. By default commands run through an
// exec.LocalRunner bounded by cfg.CommandTimeout and counters come from
// gopsutil.
func NewLocal(cfg config.Config, opts ...Option) *Local {
	l := &Local{
		cfg:    cfg,
		runner: exec.NewLocalRunner(cfg.CommandTimeout),
		stats:  HostStats{},
		log:    logger.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SystemStats holds the OS counters of one cycle.
type SystemStats struct {
	CPU      Sample
	RAM      Sample
	Disk     Sample
	Sent     Sample
	Received Sample
}

// System reads CPU, memory, disk and network counters. Network counters
// are cumulative since boot; no rate is computed.
func (l *Local) System(ctx context.Context) SystemStats {
	var s SystemStats

	if v, err := l.stats.CPUPercent(ctx, l.cfg.CPUSample); err == nil {
		s.CPU = Percent("CPU Usage", v)
	} else {
		l.log.Debug("cpu percent: %v", err)
		s.CPU = Unavailable("CPU Usage", KindPercent)
	}

	if v, err := l.stats.MemoryPercent(ctx); err == nil {
		s.RAM = Percent("RAM Usage", v)
	} else {
		l.log.Debug("memory percent: %v", err)
		s.RAM = Unavailable("RAM Usage", KindPercent)
	}

	if v, err := l.stats.DiskPercent(ctx, l.cfg.DiskPath); err == nil {
		s.Disk = Percent("Disk Usage", v)
	} else {
		l.log.Debug("disk usage of %s: %v", l.cfg.DiskPath, err)
		s.Disk = Unavailable("Disk Usage", KindPercent)
	}

	if sent, recv, err := l.stats.NetIO(ctx); err == nil {
		s.Sent = Bytes("Data Sent", sent)
		s.Received = Bytes("Data Received", recv)
	} else {
		l.log.Debug("network counters: %v", err)
		s.Sent = Unavailable("Data Sent", KindBytes)
		s.Received = Unavailable("Data Received", KindBytes)
	}

	return s
}

// LocalReport is everything the local probe set produced in one cycle.
type LocalReport struct {
	System       SystemStats
	Voltage      Sample
	Throttle     Sample
	ServiceLabel string
	Service      ServiceState
	Internet     bool
	SSH          Connections
	Elapsed      Sample
}

// Warnings returns the under-voltage and throttling warning lines.
func (r LocalReport) Warnings() []string {
	if !r.Throttle.OK() {
		return nil
	}
	return LocalWarnings(r.Throttle.String())
}

// Collect runs every local probe. With cfg.ParallelProbes the probes run
// concurrently, otherwise one after another. Each probe writes only its own
// field of the report.
func (l *Local) Collect(ctx context.Context) LocalReport {
	start := time.Now()
	r := LocalReport{ServiceLabel: l.cfg.Service.Label}
	if r.ServiceLabel == "" {
		r.ServiceLabel = l.cfg.Service.Name
	}

	probes := []func(){
		func() { r.System = l.System(ctx) },
		func() { r.Voltage = l.Voltage(ctx) },
		func() { r.Throttle = l.Throttle(ctx) },
		func() { r.Service = l.Service(ctx, l.cfg.Service.Name) },
		func() { r.Internet = l.Internet(ctx) },
		func() { r.SSH = l.SSHConnections(ctx) },
	}

	if l.cfg.ParallelProbes {
		var wg sync.WaitGroup
		for _, p := range probes {
			wg.Add(1)
			go func(p func()) {
				defer wg.Done()
				p()
			}(p)
		}
		wg.Wait()
	} else {
		for _, p := range probes {
			p()
		}
	}

	r.Elapsed = Duration("Local probes", time.Since(start))
	return r
}
