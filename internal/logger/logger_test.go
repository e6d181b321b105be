package logger

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestNewLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		debug     bool
		expectLog bool
	}{
		{name: "logs when PIMON_DEBUG is set", envValue: "1", expectLog: true},
		{name: "logs when debug flag is set", debug: true, expectLog: true},
		{name: "silent by default", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			t.Setenv(DebugEnv, tt.envValue)

			l := NewLogger("[test]", tt.debug)
			l.Debug("probe %s", "voltage")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] DEBUG: probe voltage")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestStdLogger_Levels(t *testing.T) {
	buf := captureLog(t)

	l := NewEnvLogger("[lvl]")
	l.Info("info %d", 1)
	l.Warn("warn %d", 2)
	l.Error("error %d", 3)

	out := buf.String()
	assert.Contains(t, out, "[lvl] info 1")
	assert.Contains(t, out, "[lvl] WARN: warn 2")
	assert.Contains(t, out, "[lvl] ERROR: error 3")
}

func TestNoopLogger(t *testing.T) {
	buf := captureLog(t)

	l := Noop()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")

	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	l.Debug("d %s", "1")
	l.Warn("w")

	msgs := l.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, LogMessage{Level: "debug", Message: "d 1"}, msgs[0])
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	l.Clear()
	assert.Empty(t, l.Snapshot())
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Info("msg %d", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Snapshot(), 20)
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)
	assert.Equal(t, buf, Default())
}
