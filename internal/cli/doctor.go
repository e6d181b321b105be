package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/doctor"
	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/rileyhilliard/pimon/internal/monitor"
	"github.com/spf13/cobra"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose why parts of the report show N/A",
	Long: `Check the config, the local tools the probes run, the SSH key and
known_hosts, and whether the remote host answers.

Exits non-zero when any check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A broken config is reported by the config check, so fall back to
		// defaults for everything else.
		cfg, err := config.Load(configFlag)
		if err != nil {
			cfg = config.DefaultConfig()
		}

		checks := doctor.NewChecks(configFlag, cfg, nil, nil)
		results := doctor.RunAllParallel(cmd.Context(), checks)

		if doctorJSON {
			err = outputDoctorJSON(cmd.OutOrStdout(), checks, results)
		} else {
			err = outputDoctorText(cmd.OutOrStdout(), checks, results)
		}
		if err != nil {
			return err
		}

		if doctor.HasFailures(results) {
			return errors.New(errors.ErrConfig, doctor.Summary(results), "")
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := doctor.GroupByCategory(checks)

	output := DoctorOutput{}
	for _, cat := range doctor.CategoryOrder {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

const (
	symbolPass = "✓"
	symbolFail = "✗"
	symbolWarn = "!"
)

func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	passStyle := lipgloss.NewStyle().Foreground(monitor.ColorHealthy)
	warnStyle := lipgloss.NewStyle().Foreground(monitor.ColorWarning)
	failStyle := lipgloss.NewStyle().Foreground(monitor.ColorCritical)
	mutedStyle := lipgloss.NewStyle().Foreground(monitor.ColorTextMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("pimon diagnostic report") + "\n\n")

	grouped := doctor.GroupByCategory(checks)
	for _, cat := range doctor.CategoryOrder {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		b.WriteString(headerStyle.Render(cat) + "\n")

		for _, idx := range indices {
			r := results[idx]
			symbol, style := symbolPass, passStyle
			switch r.Status {
			case doctor.StatusWarn:
				symbol, style = symbolWarn, warnStyle
			case doctor.StatusFail:
				symbol, style = symbolFail, failStyle
			}
			fmt.Fprintf(&b, "  %s %s\n", style.Render(symbol), r.Message)

			if r.Suggestion != "" && r.Status != doctor.StatusPass {
				for _, line := range strings.Split(r.Suggestion, "\n") {
					fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(line))
				}
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60) + "\n\n")
	if doctor.HasIssues(results) {
		fmt.Fprintf(&b, "%s %s\n", failStyle.Render(symbolFail), doctor.Summary(results))
	} else {
		fmt.Fprintf(&b, "%s %s\n", passStyle.Render(symbolPass), doctor.Summary(results))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
