package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/monitor"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one report and exit",
	Long: `Run a single collection cycle and print the report.

The cycle is bounded by cycle_timeout, so a slow or unreachable remote
host shows up as unavailable instead of hanging.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func snapshotCommand(ctx context.Context, w io.Writer, cfg config.Config, log logger.Logger) error {
	s := &monitor.Scheduler{
		Interval: cfg.Interval,
		Task:     monitor.TaskOf(newCycle(cfg, log)),
		Log:      log,
	}
	return writeReport(w, s.RunOnce(ctx))
}

// writeReport prints text as-is; reports already end in a newline, error
// messages do not.
func writeReport(w io.Writer, text string) error {
	text = render(w, text)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := fmt.Fprint(w, text)
	return err
}

// render colors a report when w is a terminal and leaves it alone otherwise.
func render(w io.Writer, text string) string {
	if !isTerminal(w) {
		return text
	}
	return monitor.StyleReport(text)
}
