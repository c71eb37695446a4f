package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintSchema(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
