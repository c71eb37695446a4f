package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List the workflows of a locale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		return cli.Workflows(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
}
