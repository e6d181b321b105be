package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration pimon would run with, after defaults, the config
file and PIMON_* environment variables are merged. The output is valid
YAML and can be saved as a config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := config.Find(configFlag)
		if err != nil {
			return err
		}
		return configCommand(cmd.OutOrStdout(), cfg, path)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func configCommand(w io.Writer, cfg config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't encode config", "")
	}

	source := "built-in defaults"
	if path != "" {
		source = path
	}
	fmt.Fprintf(w, "# source: %s\n", source)
	_, err = w.Write(data)
	return err
}
