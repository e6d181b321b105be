package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimon/internal/probe"
	"github.com/rileyhilliard/pimon/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticCycle(text string) CycleFunc {
	return func(ctx context.Context) report.Result {
		snap := report.Snapshot{Local: probe.LocalReport{
			System:   probe.SystemStats{CPU: probe.Percent("CPU Usage", 42)},
			Throttle: probe.Text("Local Voltage and Throttle Status", "throttled=0x0"),
		}}
		return report.Result{Text: text, Snapshot: &snap}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// deliver runs the model's first cycle and feeds the result back.
func deliver(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.collectCmd()()
	m, _ = update(t, m, msg)
	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(staticCycle("r"), 5*time.Second, 4*time.Second, nil)

	assert.True(t, m.Collecting(), "the first cycle starts with Init")
	assert.Equal(t, 0, m.Cycles())
	assert.Equal(t, 5*time.Second, m.interval)
	assert.NotNil(t, m.Init())
}

func TestModel_ReportReplacesContent(t *testing.T) {
	m := NewModel(staticCycle("first report"), time.Second, 0, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = deliver(t, m)
	assert.Equal(t, "first report", m.Report())
	assert.False(t, m.Collecting())
	assert.Equal(t, 1, m.Cycles())
	assert.Equal(t, 1, m.history.Len())
	assert.Contains(t, m.View(), "first report")
}

func TestModel_ReportSchedulesNextTick(t *testing.T) {
	m := NewModel(staticCycle("r"), time.Second, 0, nil)
	next, cmd := m.Update(m.collectCmd()())
	require.NotNil(t, cmd, "next tick armed only after the report arrives")
	assert.Equal(t, 1, next.(Model).tickID)
}

func TestModel_TickIgnoredWhileCollecting(t *testing.T) {
	m := NewModel(staticCycle("r"), time.Second, 0, nil)
	m.tickID = 3

	m, cmd := update(t, m, tickMsg{id: 3})
	assert.Nil(t, cmd, "a cycle is already in flight")
	assert.True(t, m.Collecting())
}

func TestModel_TickStartsCycle(t *testing.T) {
	m := deliver(t, NewModel(staticCycle("r"), time.Second, 0, nil))
	require.False(t, m.Collecting())

	m, cmd := update(t, m, tickMsg{id: m.tickID})
	assert.NotNil(t, cmd)
	assert.True(t, m.Collecting())
}

func TestModel_StaleTickIgnored(t *testing.T) {
	m := deliver(t, NewModel(staticCycle("r"), time.Second, 0, nil))

	m, cmd := update(t, m, tickMsg{id: m.tickID - 1})
	assert.Nil(t, cmd)
	assert.False(t, m.Collecting())
}

func TestModel_RefreshKey(t *testing.T) {
	m := NewModel(staticCycle("r"), time.Second, 0, nil)

	// In flight: refresh is ignored.
	m, cmd := update(t, m, key("r"))
	assert.Nil(t, cmd)

	m = deliver(t, m)
	pending := m.tickID

	m, cmd = update(t, m, key("r"))
	assert.NotNil(t, cmd)
	assert.True(t, m.Collecting())

	// The tick armed before the manual refresh no longer fires a cycle.
	m, cmd = update(t, m, tickMsg{id: pending})
	assert.Nil(t, cmd)
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := NewModel(staticCycle("r"), time.Second, 0, nil)
			m, cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := NewModel(staticCycle("r"), time.Second, 0, nil)

	m, _ = update(t, m, key("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = update(t, m, key("?"))
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")

	m, _ = update(t, m, key("?"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestModel_Scroll(t *testing.T) {
	long := strings.Repeat("line\n", 100)
	m := NewModel(staticCycle(long), time.Second, 0, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	m = deliver(t, m)

	assert.Equal(t, 0, m.viewport.YOffset)
	m, _ = update(t, m, key("j"))
	assert.Equal(t, 1, m.viewport.YOffset)
	m, _ = update(t, m, key("k"))
	assert.Equal(t, 0, m.viewport.YOffset)
	m, _ = update(t, m, key("end"))
	assert.Greater(t, m.viewport.YOffset, 50)
	m, _ = update(t, m, key("home"))
	assert.Equal(t, 0, m.viewport.YOffset)
}

func TestModel_CyclePanicShownInline(t *testing.T) {
	m := NewModel(func(ctx context.Context) report.Result { panic("probe exploded") }, time.Second, 0, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = deliver(t, m)

	assert.Equal(t, "An error occurred: probe exploded", m.Report())
	assert.False(t, m.Collecting())
	assert.Equal(t, 0, m.history.Len())
}

func TestModel_CycleTimeoutApplied(t *testing.T) {
	var deadline time.Time
	var ok bool
	m := NewModel(func(ctx context.Context) report.Result {
		deadline, ok = ctx.Deadline()
		return report.Result{Text: "r"}
	}, time.Second, 2*time.Second, nil)

	deliver(t, m)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
}

func TestModel_SecondsSinceUpdate(t *testing.T) {
	m := NewModel(staticCycle("r"), time.Second, 0, nil)
	assert.Equal(t, 0, m.SecondsSinceUpdate())

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.lastUpdate = base
	m.now = func() time.Time { return base.Add(7 * time.Second) }
	assert.Equal(t, 7, m.SecondsSinceUpdate())
	assert.Contains(t, m.renderHeader(), "updated 7s ago")
}

func TestModel_HeaderBadges(t *testing.T) {
	m := NewModel(staticCycle("r"), time.Second, 0, nil)
	m = deliver(t, m)

	header := m.renderHeader()
	assert.Contains(t, header, "power ok")
	assert.Contains(t, header, "remote down")
	assert.Contains(t, header, "cpu")
}
