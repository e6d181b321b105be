package testing

import (
	"context"
	"errors"
	gotesting "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_ExactBeatsPattern(t *gotesting.T) {
	m := NewMockClient("pi")
	m.SetCommandResponse("vcgencmd.*", CommandResponse{Stdout: []byte("pattern")})
	m.SetOutput("vcgencmd measure_temp", "temp=48.3'C\n")

	out, _, code, err := m.Exec("vcgencmd measure_temp")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "temp=48.3'C\n", string(out))

	out, _, _, err = m.Exec("vcgencmd get_throttled")
	require.NoError(t, err)
	assert.Equal(t, "pattern", string(out))
}

func TestMockClient_Unmatched(t *gotesting.T) {
	m := NewMockClient("pi")
	_, stderr, code, err := m.Exec("uptime -p")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
	assert.Contains(t, string(stderr), "not found")
}

func TestMockClient_ErrorResponse(t *gotesting.T) {
	m := NewMockClient("pi")
	boom := errors.New("session reset")
	m.SetOutput("true", "")
	m.SetExact("false", CommandResponse{Error: boom, ExitCode: -1})

	_, _, code, err := m.Exec("false")
	assert.Equal(t, -1, code)
	assert.ErrorIs(t, err, boom)
}

func TestMockClient_CloseAndCalls(t *gotesting.T) {
	m := NewMockClient("pi")
	m.SetOutput("a", "1")

	_, _, _, _ = m.Exec("a")
	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())
	assert.Equal(t, 1, m.CloseCount())

	_, _, code, err := m.Exec("a")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
	assert.Equal(t, []string{"a", "a"}, m.Calls())
	assert.Equal(t, "pi", m.GetHost())
	assert.Equal(t, "pi:22", m.GetAddress())
}

func TestMockClient_CancelledContext(t *gotesting.T) {
	m := NewMockClient("pi")
	m.SetOutput("a", "1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, code, err := m.ExecContext(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, code)
}

func TestServer_RecordsCommands(t *gotesting.T) {
	srv := NewServer(t, func(cmd string) (string, string, int) {
		return "ok\n", "", 0
	})
	assert.NotEmpty(t, srv.KeyPath)
	assert.NotZero(t, srv.Port)
	assert.Empty(t, srv.Commands())

	kh := srv.WriteKnownHosts(t)
	assert.FileExists(t, kh)

	target := srv.Target(kh, true)
	assert.Equal(t, srv.Port, target.Port)
	assert.True(t, target.StrictHostKey)
}
