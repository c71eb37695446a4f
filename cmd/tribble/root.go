package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
)

// settings resolves the options of the command being executed.
var settings = cli.NewLoader()

var rootCmd = &cobra.Command{
	Use:   "tribble",
	Short: "Tribble runs structured questionnaires that end in a report",
	Long: `Tribble walks users through the workflows of a YAML configuration,
collecting form values and tags, and renders a report to paste into an issue tracker.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return settings.BindFlags(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", cli.DefaultConfigPath, "Configuration file (env TRIBBLE_CONF)")
	rootCmd.PersistentFlags().StringP("locale", "l", "", "Locale of the workflows (default: first locale)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log session events to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// loadOptions resolves the settings after the flags were bound.
func loadOptions() (cli.Options, error) {
	return settings.Load()
}
