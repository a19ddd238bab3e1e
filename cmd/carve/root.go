package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docslice/carve/internal/appcfg"
	"github.com/docslice/carve/internal/output"
	"github.com/docslice/carve/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string

	cfgManager *appcfg.Manager
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "carve",
	Short: "Region segmentation for invoice PDFs",
	Long: `Carve locates named regions on invoice pages from a declarative
profile: anchors are found by pattern, capture windows are grown around
them, and ordered fallbacks take over when an anchor is missing.

Typical flow:
  carve validate -p profile.yaml        # check a profile, print canonical form
  carve segment -p profile.yaml -t tokens.json
  carve schema                          # print the profile JSON schema`,
	Version: version.GitRelease,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfgManager, err = appcfg.NewManager(cfgFile)
		if err != nil {
			return err
		}
		logger = cfgManager.Get().NewLogger(os.Stderr)
		return nil
	},
}

// printer returns the output printer for the current invocation. The
// --output flag wins over the config file setting.
func printer(cmd *cobra.Command) (*output.Printer, error) {
	name := cfgManager.Get().Output
	if cmd.Flags().Changed("output") {
		name = outputFormat
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return output.New(cmd.OutOrStdout(), format), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.carve/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "carve home directory (default: ~/.carve)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.AddCommand(versionCmd)
}
