package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	Long: `Validates every document against the JSON Schema, checks the structural rules
and reports progressions whose links name no section or endpoint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		if err := cli.Validate(opts, os.Stdout); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Println("Configuration is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
