// Package testing provides a scripted exec.Runner for probe tests.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/rileyhilliard/pimon/internal/exec"
)

// Response is the canned outcome for one command line.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeRunner answers commands from a table keyed by the full command line
// ("vcgencmd measure_volts"). Unknown commands fail as if the binary were
// missing.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

// NewFakeRunner creates a runner with no scripted commands.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// On registers the response for a command line and returns the runner for chaining.
func (f *FakeRunner) On(cmdline string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = resp
	return f
}

// Run implements exec.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (exec.Result, error) {
	cmdline := exec.CommandLine(name, args...)

	f.mu.Lock()
	f.calls = append(f.calls, cmdline)
	resp, ok := f.responses[cmdline]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return exec.Result{ExitCode: -1}, err
	}
	if !ok {
		return exec.Result{ExitCode: -1}, errors.New(errors.ErrExec,
			"Couldn't run '"+name+"'", "no scripted response for: "+cmdline)
	}
	if resp.Err != nil {
		return exec.Result{ExitCode: -1}, resp.Err
	}
	return exec.Result{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}, nil
}

// Calls returns the command lines run so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
