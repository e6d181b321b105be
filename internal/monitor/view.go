package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pimon/internal/probe"
)

// sparklineWidth is the number of cycles drawn in the CPU trend.
const sparklineWidth = 20

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.ready {
		b.WriteString(LabelStyle.Render("Collecting first report..."))
	} else {
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title, update age and status badges.
func (m Model) renderHeader() string {
	var updateText string
	switch {
	case m.lastUpdate.IsZero():
		updateText = "waiting for first report"
	case m.SecondsSinceUpdate() == 0:
		updateText = "updated just now"
	case m.SecondsSinceUpdate() == 1:
		updateText = "updated 1s ago"
	default:
		updateText = fmt.Sprintf("updated %ds ago", m.SecondsSinceUpdate())
	}
	if m.collecting {
		updateText += " | collecting"
	}

	parts := []string{
		TitleStyle.Render("pimon"),
		LabelStyle.Render(" | " + updateText + " "),
	}

	if s := m.snapshot; s != nil {
		status, ok := probe.ParseThrottle(s.Local.Throttle.String())
		parts = append(parts, ThrottleBadge(status, ok && s.Local.Throttle.OK()), " ", RemoteBadge(s.Remote))
	}

	if trend := m.history.Last(sparklineWidth); len(trend) > 0 {
		parts = append(parts, LabelStyle.Render(" cpu "), RenderSparkline(trend, sparklineWidth))
	}

	return HeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

// renderFooter renders key hints and cycle stats.
func (m Model) renderFooter() string {
	hints := "q quit | r refresh | j/k scroll | ? help"
	stats := fmt.Sprintf("every %s", m.interval)
	if m.cycles > 0 {
		stats = fmt.Sprintf("cycle %d took %s | %s", m.cycles, m.lastElapsed.Round(time.Millisecond), stats)
	}
	if m.ready && m.viewport.TotalLineCount() > m.viewport.Height {
		stats = fmt.Sprintf("%3.0f%% | %s", m.viewport.ScrollPercent()*100, stats)
	}
	return FooterStyle.Render(hints + "  " + stats)
}
