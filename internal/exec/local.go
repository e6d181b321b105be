package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/pimon/internal/errors"
)

// Result is the captured outcome of a command that actually ran.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output returns stdout with surrounding whitespace removed.
func (r Result) Output() string {
	return strings.TrimSpace(string(r.Stdout))
}

// Runner executes local commands.
//
// A non-nil error means the command could not be run at all (missing
// binary, timeout, cancelled context). A command that ran and exited
// non-zero returns a nil error and its exit code in the Result.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// LocalRunner runs commands directly (no shell) with a per-command timeout.
type LocalRunner struct {
	Timeout time.Duration
}

// NewLocalRunner creates a runner that bounds every command by timeout.
// A zero timeout leaves commands bounded only by the caller's context.
func NewLocalRunner(timeout time.Duration) *LocalRunner {
	return &LocalRunner{Timeout: timeout}
}

// Run executes name with args and captures its output.
func (r *LocalRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, name, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	runErr := command.Run()

	// A killed process surfaces as an ExitError, so check the context first.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{ExitCode: -1}, errors.WrapWithCode(ctxErr, errors.ErrExec,
			fmt.Sprintf("'%s' did not finish in time", name),
			"The tool may be hanging; check it by hand.")
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			return Result{
				Stdout:   stdout.Bytes(),
				Stderr:   stderr.Bytes(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		return Result{ExitCode: -1}, errors.WrapWithCode(runErr, errors.ErrExec,
			fmt.Sprintf("Couldn't run '%s'", name),
			"Make sure the command exists and is executable.")
	}

	return Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: 0,
	}, nil
}

// CommandLine joins a command and its arguments for display and lookup.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
