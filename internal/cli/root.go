package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/monitor"
	"github.com/rileyhilliard/pimon/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	configFlag  string
	noColorFlag bool
	debugFlag   bool
)

// newCycle builds the per-cycle report function. Tests replace it.
var newCycle = func(cfg config.Config, log logger.Logger) monitor.CycleFunc {
	return report.New(cfg, log).Run
}

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "pimon",
	Short: "Raspberry Pi health monitor",
	Long: `Monitor the health of this Raspberry Pi and one remote Pi.

Shows CPU, memory, disk and network counters, supply voltage and throttle
state, a service's liveness, internet reachability and inbound SSH sessions,
plus temperature, load, free disk, uptime and throttle state of the remote
host fetched over SSH. The report refreshes on a fixed interval.

Runs as a full-screen dashboard. When stdout isn't a terminal it falls
back to printing each report, like 'pimon watch'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag || os.Getenv("NO_COLOR") != "" {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if !isTerminal(cmd.OutOrStdout()) {
			log.Debug("stdout is not a terminal, using watch mode")
			return watchCommand(cmd.Context(), cmd.OutOrStdout(), cfg, log)
		}
		return dashboardCommand(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/pimon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// loadConfig reads the configuration and builds the process logger.
func loadConfig() (config.Config, logger.Logger, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return config.Config{}, nil, err
	}
	if debugFlag {
		cfg.Debug = true
	}

	log := logger.NewLogger("[pimon]", cfg.Debug)
	logger.SetDefault(log)
	return cfg, log, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
