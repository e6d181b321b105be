package monitor

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/pimon/internal/probe"
	"github.com/rileyhilliard/pimon/internal/remote"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// Plain text keeps assertions independent of the test terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestThrottleBadge(t *testing.T) {
	tests := []struct {
		name   string
		status probe.ThrottleStatus
		ok     bool
		want   string
	}{
		{"unreadable", 0, false, "throttle n/a"},
		{"clear", 0, true, "power ok"},
		{"past only", probe.ThrottleUnderVoltageSeen, true, "throttled since boot"},
		{"active", probe.ThrottleUnderVoltage | probe.ThrottleThrottled, true, "under-voltage, throttled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ThrottleBadge(tt.status, tt.ok), tt.want)
		})
	}
}

func TestRemoteBadge(t *testing.T) {
	withThrottle := func(raw string) *remote.Report {
		return &remote.Report{Fields: []remote.Field{{Name: remote.FieldThrottle, Value: raw}}}
	}

	assert.Equal(t, "remote down", strings.TrimSpace(RemoteBadge(nil)))
	assert.Equal(t, "remote up", strings.TrimSpace(RemoteBadge(withThrottle("throttled=0x0"))))
	assert.Equal(t, "remote up", strings.TrimSpace(RemoteBadge(withThrottle(""))))
	assert.Equal(t, "remote under-voltage, throttled",
		strings.TrimSpace(RemoteBadge(withThrottle("throttled=0x50005"))))
}

func TestStyleReport_PreservesText(t *testing.T) {
	text := "===== Local System Status =====\nCPU Usage: 1.0%\nWARNING: Local Throttling active!\n========================="
	styled := StyleReport(text)
	assert.Equal(t, strings.Count(text, "\n"), strings.Count(styled, "\n"))
	assert.Contains(t, styled, "CPU Usage: 1.0%")
	assert.Contains(t, styled, "WARNING: Local Throttling active!")
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil, 10))
	assert.Empty(t, RenderSparkline([]float64{1}, 0))

	assert.Equal(t, "▁▄█", RenderSparkline([]float64{0, 50, 100}, 10))
	assert.Equal(t, "█", RenderSparkline([]float64{0, 150}, 1), "only the newest values, clamped")
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	assert.Nil(t, h.Last(5))

	h.Push(1)
	h.Push(2)
	assert.Equal(t, []float64{1, 2}, h.Last(5))

	h.Push(3)
	h.Push(4)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{2, 3, 4}, h.Last(3))
	assert.Equal(t, []float64{3, 4}, h.Last(2))

	assert.Equal(t, DefaultHistorySize, len(NewHistory(0).data))
}
