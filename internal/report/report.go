// Package report merges the local probe set and the remote probe client into
// one textual snapshot.
package report

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/probe"
	"github.com/rileyhilliard/pimon/internal/remote"
)

// Section headers and separators.
const (
	LocalHeader       = "===== Local System Status ====="
	RemoteHeader      = "===== Remote System Status ====="
	LocalFooter       = "=================================="
	ReportFooter      = "========================="
	RemoteUnavailable = "Could not fetch remote system information"

	// ErrorPrefix starts the message shown in place of a failed report.
	ErrorPrefix = "An error occurred: "
)

// LocalCollector produces the local half of a snapshot.
type LocalCollector interface {
	Collect(ctx context.Context) probe.LocalReport
}

// RemoteFetcher produces the remote half. A nil report means unreachable.
type RemoteFetcher interface {
	Fetch(ctx context.Context) (*remote.Report, error)
}

// Snapshot is everything gathered in one cycle.
type Snapshot struct {
	Local probe.LocalReport

	// Remote is nil when the remote host could not be reached.
	Remote    *remote.Report
	RemoteErr error

	Taken   time.Time
	Elapsed time.Duration
}

// Warnings returns the inline warning lines for this snapshot.
func (s Snapshot) Warnings() []string {
	return s.Local.Warnings()
}

// Aggregator runs one collection cycle and formats the result.
type Aggregator struct {
	Local  LocalCollector
	Remote RemoteFetcher
	Config config.Config
	Log    logger.Logger
}

// New creates an Aggregator over the real local probes and SSH client.
func New(cfg config.Config, log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Noop()
	}
	return &Aggregator{
		Local:  probe.NewLocal(cfg, probe.WithLogger(log)),
		Remote: remote.NewClient(cfg.Remote, log),
		Config: cfg,
		Log:    log,
	}
}

func (a *Aggregator) log() logger.Logger {
	if a.Log == nil {
		return logger.Noop()
	}
	return a.Log
}

// RemoteBudget is how long the remote fetch may take when it runs after the
// local probes: one dial plus one command allowance. It falls back to the
// cycle timeout when neither is set.
func RemoteBudget(cfg config.Config) time.Duration {
	if budget := cfg.Remote.DialTimeout + cfg.CommandTimeout; budget > 0 {
		return budget
	}
	return cfg.CycleTimeout
}

// withBudget bounds ctx by d; a non-positive d leaves it unbounded.
func withBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Collect gathers local and remote data.
//
// With Config.ParallelProbes both halves run concurrently under one
// CycleTimeout. Otherwise local runs first under CycleTimeout and the remote
// fetch then gets a fresh RemoteBudget, so slow local probes can't starve a
// reachable remote.
func (a *Aggregator) Collect(ctx context.Context) Snapshot {
	start := time.Now()
	snap := Snapshot{Taken: start}

	cycleCtx, cancel := withBudget(ctx, a.Config.CycleTimeout)
	defer cancel()

	collectLocal := func() {
		snap.Local = a.Local.Collect(cycleCtx)
	}
	fetchRemote := func(ctx context.Context) {
		snap.Remote, snap.RemoteErr = a.Remote.Fetch(ctx)
		if snap.RemoteErr != nil {
			// A report alongside an error is not trusted.
			snap.Remote = nil
			a.log().Warn("remote probe failed: %s", errors.Short(snap.RemoteErr))
		}
	}

	if a.Config.ParallelProbes {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			panicked interface{}
		)
		run := func(f func()) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if panicked == nil {
						panicked = r
					}
					mu.Unlock()
				}
			}()
			f()
		}
		wg.Add(2)
		go run(collectLocal)
		go run(func() { fetchRemote(cycleCtx) })
		wg.Wait()

		// Re-raise on the caller's goroutine so Build can recover it.
		if panicked != nil {
			panic(panicked)
		}
	} else {
		collectLocal()

		remoteCtx, cancelRemote := withBudget(ctx, RemoteBudget(a.Config))
		fetchRemote(remoteCtx)
		cancelRemote()
	}

	snap.Elapsed = time.Since(start)
	a.log().Debug("cycle collected in %s", snap.Elapsed.Round(time.Millisecond))
	return snap
}

// Format renders a snapshot as the textual report.
func Format(s Snapshot) string {
	var b strings.Builder
	put := func(text string) {
		b.WriteString(text)
		b.WriteByte('\n')
	}
	line := func(format string, args ...interface{}) {
		put(fmt.Sprintf(format, args...))
	}

	l := s.Local
	put(LocalHeader)
	line("CPU Usage: %s", l.System.CPU)
	line("RAM Usage: %s", l.System.RAM)
	line("Disk Usage: %s", l.System.Disk)
	line("Voltage: %s", l.Voltage)
	line("Local Voltage and Throttle Status: %s", l.Throttle)
	line("Data Sent: %s", l.System.Sent)
	line("Data Received: %s", l.System.Received)
	line("%s Status: %s", l.ServiceLabel, l.Service)
	line("Internet Status: %s", probe.UpDown("Internet Status", l.Internet))
	line("SSH Connections: %s", l.SSH.CountString())
	for _, d := range l.SSH.Details {
		line("  - %s", d)
	}
	put(LocalFooter)

	if s.Remote == nil {
		put(RemoteUnavailable)
	} else {
		put(RemoteHeader)
		for _, cmd := range remote.Battery {
			line("%s: %s", cmd.Name, s.Remote.Get(cmd.Name))
		}
	}

	for _, w := range s.Warnings() {
		put(w)
	}
	put(ReportFooter)
	return b.String()
}

// Result is the outcome of one cycle.
type Result struct {
	Text string
	// Snapshot is nil when the cycle failed and Text holds an error message.
	Snapshot *Snapshot
}

// Run collects and formats one report within the cycle budgets. It never
// panics; an unexpected failure is rendered as an inline error message
// instead.
func (a *Aggregator) Run(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.New(errors.ErrRender, fmt.Sprintf("report build panicked: %v", r), "")
			a.log().Error("%s\n%s", errors.Short(err), debug.Stack())
			res = Result{Text: ErrorMessage(err)}
		}
	}()

	snap := a.Collect(ctx)
	return Result{Text: Format(snap), Snapshot: &snap}
}

// Build returns the text of one report.
func (a *Aggregator) Build(ctx context.Context) string {
	return a.Run(ctx).Text
}

// ErrorMessage renders an error inline in place of a report.
func ErrorMessage(err error) string {
	return ErrorPrefix + errors.Short(err)
}
