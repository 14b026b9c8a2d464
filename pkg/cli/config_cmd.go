package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/sensormock/pkg/cli/internal/output"
	"github.com/getmockd/sensormock/pkg/cliconfig"
)

// ConfigOutput is the JSON form of `sensormock config --json`.
type ConfigOutput struct {
	Config  *cliconfig.CLIConfig `json:"config"`
	Sources map[string]string    `json:"sources"`
}

var (
	configJSON bool
	configFile string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration with source annotations",
	Example: `  sensormock config
  sensormock config --json
  SENSORMOCK_PORT=9000 sensormock config -c rig.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := cliconfig.LoadAll(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return printConfig(cmd.OutOrStdout(), cfg, configJSON)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Output in JSON format")
	configCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, cfg *cliconfig.CLIConfig, asJSON bool) error {
	if asJSON {
		return output.JSON(w, ConfigOutput{Config: cfg, Sources: cfg.Sources})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	fmt.Fprintln(w, "# Effective configuration")
	if cfg.ConfigFile != "" {
		fmt.Fprintf(w, "# Config file: %s\n", cfg.ConfigFile)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	tw := output.Table(w)
	for _, key := range cliconfig.Keys {
		source := cfg.Sources[key]
		if source == "" {
			source = cliconfig.SourceDefault
		}
		fmt.Fprintf(tw, "  %s\t%s\n", key, source)
	}
	return tw.Flush()
}
