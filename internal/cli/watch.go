package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/logger"
	"github.com/rileyhilliard/pimon/internal/monitor"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a fresh report every interval",
	Long: `Refresh the report on a fixed delay and print each one, separated by a
blank line. Useful under systemd or when piping to a file.

Stops cleanly on Ctrl-C or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		return watchCommand(cmd.Context(), cmd.OutOrStdout(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchCommand(ctx context.Context, w io.Writer, cfg config.Config, log logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &monitor.Scheduler{
		Interval: cfg.Interval,
		Task:     monitor.TaskOf(newCycle(cfg, log)),
		Log:      log,
	}

	first := true
	return s.Run(ctx, func(out string) {
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		_ = writeReport(w, out)
	})
}
