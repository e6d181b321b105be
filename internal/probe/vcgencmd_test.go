package probe

import (
	"context"
	"testing"

	exectest "github.com/rileyhilliard/pimon/internal/exec/testing"
	"github.com/stretchr/testify/assert"
)

func TestParseVoltage(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"volt=1.2000V", "1.2000 V", true},
		{"volt=0.8625V", "0.8625 V", true},
		{"volt=1V", "1 V", true},
		{"volt=1.2000", "", false},
		{"voltage=1.2V", "", false},
		{"", "", false},
		{"VCHI initialization failed", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVoltage(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocal_Voltage(t *testing.T) {
	tests := []struct {
		name string
		resp *exectest.Response
		want string
	}{
		{"well formed", &exectest.Response{Stdout: "volt=1.2000V\n"}, "1.2000 V"},
		{"malformed output", &exectest.Response{Stdout: "garbage"}, "N/A"},
		{"non-zero exit", &exectest.Response{Stdout: "volt=1.2000V", ExitCode: 1}, "N/A"},
		{"tool missing", nil, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := exectest.NewFakeRunner()
			if tt.resp != nil {
				runner.On("vcgencmd measure_volts", *tt.resp)
			}
			l := newTestLocal(runner, &fakeStats{})

			got := l.Voltage(context.Background())
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, "Voltage", got.Label)
		})
	}
}

func TestLocal_Throttle(t *testing.T) {
	tests := []struct {
		name string
		resp *exectest.Response
		want string
	}{
		{"raw output kept", &exectest.Response{Stdout: "throttled=0x50005\n"}, "throttled=0x50005"},
		{"empty output", &exectest.Response{Stdout: "  \n"}, "N/A"},
		{"non-zero exit", &exectest.Response{ExitCode: 255}, "N/A"},
		{"tool missing", nil, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := exectest.NewFakeRunner()
			if tt.resp != nil {
				runner.On("vcgencmd get_throttled", *tt.resp)
			}
			l := newTestLocal(runner, &fakeStats{})

			assert.Equal(t, tt.want, l.Throttle(context.Background()).String())
		})
	}
}
