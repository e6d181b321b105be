package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pimon/internal/probe"
	"github.com/rileyhilliard/pimon/internal/remote"
	"github.com/rileyhilliard/pimon/internal/report"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Thresholds for the CPU trend color
const (
	WarningThreshold  = 60.0
	CriticalThreshold = 80.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorGraph).
			Bold(true)

	WarningLineStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	BadgeOKStyle       = badgeStyle.Foreground(lipgloss.Color("#000000")).Background(ColorHealthy)
	BadgeWarningStyle  = badgeStyle.Foreground(lipgloss.Color("#000000")).Background(ColorWarning)
	BadgeCriticalStyle = badgeStyle.Foreground(ColorTextPrimary).Background(ColorCritical)
	BadgeUnknownStyle  = badgeStyle.Foreground(ColorTextPrimary).Background(ColorBorder)
)

// ThrottleBadge renders the local throttle state as a short colored label.
// Current conditions are critical; conditions seen only earlier since boot
// are a warning.
func ThrottleBadge(status probe.ThrottleStatus, ok bool) string {
	switch {
	case !ok:
		return BadgeUnknownStyle.Render("throttle n/a")
	case status.Active():
		return BadgeCriticalStyle.Render(strings.Join(status.Conditions(), ", "))
	case status.OccurredSinceBoot():
		return BadgeWarningStyle.Render("throttled since boot")
	default:
		return BadgeOKStyle.Render("power ok")
	}
}

// RemoteBadge renders whether the remote host answered this cycle and
// whether it is throttling. A nil report means unreachable.
func RemoteBadge(r *remote.Report) string {
	if r == nil {
		return BadgeCriticalStyle.Render("remote down")
	}
	status, ok := r.Throttle()
	switch {
	case ok && status.Active():
		return BadgeWarningStyle.Render("remote " + strings.Join(status.Conditions(), ", "))
	case !ok:
		return BadgeUnknownStyle.Render("remote up")
	default:
		return BadgeOKStyle.Render("remote up")
	}
}

// StyleReport colors section banners, warnings and error lines of a report.
// The text itself is unchanged.
func StyleReport(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "====="):
			lines[i] = SectionStyle.Render(line)
		case strings.HasPrefix(line, "WARNING:"):
			lines[i] = WarningLineStyle.Render(line)
		case strings.HasPrefix(line, report.ErrorPrefix), line == report.RemoteUnavailable:
			lines[i] = ErrorLineStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
