package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/report"
)

// Layout reserved around the viewport.
const (
	headerHeight = 2
	footerHeight = 2
)

// clockInterval refreshes the "updated Ns ago" text between cycles.
const clockInterval = time.Second

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	run      CycleFunc
	interval time.Duration
	timeout  time.Duration
	log      logger.Logger

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	text     string
	snapshot *report.Snapshot
	history  *History

	lastUpdate  time.Time
	lastElapsed time.Duration
	cycles      int

	// collecting is true from the moment a cycle is requested until its
	// report arrives. At most one cycle is in flight.
	collecting bool
	// tickID identifies the one pending tick; older ticks are ignored.
	tickID int

	showHelp bool
	quitting bool
	now      func() time.Time
}

// tickMsg fires when the delay after a cycle has passed.
type tickMsg struct{ id int }

// clockMsg re-renders the header age.
type clockMsg time.Time

// reportMsg carries a finished cycle.
type reportMsg struct {
	result  report.Result
	at      time.Time
	elapsed time.Duration
}

// NewModel creates the dashboard. interval is the delay between cycles and
// timeout bounds each cycle (0 means unbounded).
func NewModel(run CycleFunc, interval, timeout time.Duration, log logger.Logger) Model {
	if log == nil {
		log = logger.Noop()
	}
	return Model{
		run:        run,
		interval:   interval,
		timeout:    timeout,
		log:        log,
		history:    NewHistory(DefaultHistorySize),
		collecting: true, // Init starts the first cycle
		now:        time.Now,
	}
}

// Init starts the first cycle and the header clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.collectCmd(), clockCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.viewport.SetContent(StyleReport(m.text))
		return m, nil

	case tickMsg:
		if msg.id != m.tickID || m.collecting {
			return m, nil
		}
		m.collecting = true
		return m, m.collectCmd()

	case reportMsg:
		m.applyReport(msg)
		cmd := m.scheduleTick()
		return m, cmd

	case clockMsg:
		return m, clockCmd()
	}

	// Mouse wheel and anything else the viewport understands.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// applyReport swaps in a finished report in one step.
func (m *Model) applyReport(msg reportMsg) {
	m.collecting = false
	m.cycles++
	m.text = msg.result.Text
	m.snapshot = msg.result.Snapshot
	m.lastUpdate = msg.at
	m.lastElapsed = msg.elapsed

	if s := m.snapshot; s != nil && s.Local.System.CPU.OK() {
		m.history.Push(s.Local.System.CPU.Value())
	}

	if m.ready {
		m.viewport.SetContent(StyleReport(m.text))
	}
	m.log.Debug("cycle %d applied after %s", m.cycles, msg.elapsed.Round(time.Millisecond))
}

// scheduleTick arms the delay before the next cycle, invalidating any
// tick still pending.
func (m *Model) scheduleTick() tea.Cmd {
	m.tickID++
	id := m.tickID
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// refresh starts a cycle now unless one is already running.
func (m *Model) refresh() tea.Cmd {
	if m.collecting {
		return nil
	}
	m.collecting = true
	m.tickID++ // drop the pending tick; the report schedules a new one
	return m.collectCmd()
}

// collectCmd runs one cycle off the UI goroutine.
func (m Model) collectCmd() tea.Cmd {
	run, timeout, log, now := m.run, m.timeout, m.log, m.now
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := now()
		res := runCycle(ctx, run, log)
		end := now()
		return reportMsg{result: res, at: end, elapsed: end.Sub(start)}
	}
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Report returns the report currently on screen.
func (m Model) Report() string {
	return m.text
}

// Collecting reports whether a cycle is in flight.
func (m Model) Collecting() bool {
	return m.collecting
}

// Cycles returns how many reports have been displayed.
func (m Model) Cycles() int {
	return m.cycles
}

// SecondsSinceUpdate returns seconds since the last report arrived.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(m.now().Sub(m.lastUpdate).Seconds())
}
