package cli

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/monitor"
)

// dashboardLogPath is where log output goes while the alt screen owns the
// terminal.
func dashboardLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pimon", "pimon.log")
}

// dashboardCommand runs the full-screen dashboard until the user quits.
func dashboardCommand(cfg config.Config) error {
	logPath := dashboardLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create log directory "+filepath.Dir(logPath), "")
	}
	f, err := tea.LogToFile(logPath, "")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+logPath, "")
	}
	defer f.Close()

	log := logger.NewLogger("[pimon]", cfg.Debug)
	model := monitor.NewModel(newCycle(cfg, log), cfg.Interval, 0, log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Dashboard stopped unexpectedly", "")
	}
	return nil
}
