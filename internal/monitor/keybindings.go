package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyUp         = "up"
	KeyUpK        = "k"
	KeyDown       = "down"
	KeyDownJ      = "j"
	KeyPageUp     = "pgup"
	KeyPageDown   = "pgdown"
	KeyTop        = "home"
	KeyBottom     = "end"
	KeyCloseHelp  = "esc"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCloseHelp {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refresh()

	case KeyUp, KeyUpK:
		m.viewport.LineUp(1)
		return true, nil

	case KeyDown, KeyDownJ:
		m.viewport.LineDown(1)
		return true, nil

	case KeyPageUp:
		m.viewport.ViewUp()
		return true, nil

	case KeyPageDown:
		m.viewport.ViewDown()
		return true, nil

	case KeyTop:
		m.viewport.GotoTop()
		return true, nil

	case KeyBottom:
		m.viewport.GotoBottom()
		return true, nil
	}

	return false, nil
}
