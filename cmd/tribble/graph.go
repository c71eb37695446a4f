package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [workflow]",
	Short: "Export a workflow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the sections, endpoints and progressions of a workflow.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			opts.Workflow = args[0]
		}
		return cli.Graph(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
