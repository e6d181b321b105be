package exec

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX userland")
	}
}

func TestLocalRunner_Success(t *testing.T) {
	skipOnWindows(t)

	r := NewLocalRunner(2 * time.Second)
	res, err := r.Run(context.Background(), "echo", "volt=1.2000V")
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, "volt=1.2000V", res.Output())
}

func TestLocalRunner_NonZeroExit(t *testing.T) {
	skipOnWindows(t)

	r := NewLocalRunner(2 * time.Second)
	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err, "a command that ran is not an execution failure")

	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Equal(t, "out", res.Output())
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestLocalRunner_MissingBinary(t *testing.T) {
	r := NewLocalRunner(2 * time.Second)
	res, err := r.Run(context.Background(), "pimon-definitely-not-a-real-tool")
	require.Error(t, err)

	assert.Equal(t, -1, res.ExitCode)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}

func TestLocalRunner_Timeout(t *testing.T) {
	skipOnWindows(t)

	r := NewLocalRunner(100 * time.Millisecond)
	start := time.Now()
	res, err := r.Run(context.Background(), "sleep", "5")
	require.Error(t, err)

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, err.Error(), "did not finish in time")
}

func TestLocalRunner_CancelledContext(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalRunner(0).Run(ctx, "echo", "hi")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "netstat", CommandLine("netstat"))
	assert.Equal(t, "vcgencmd measure_volts", CommandLine("vcgencmd", "measure_volts"))
}
