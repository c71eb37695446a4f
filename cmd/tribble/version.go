package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tribble",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tribble version %s\n", strings.TrimSpace(tribble.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
