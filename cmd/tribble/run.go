package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
	"github.com/aretw0/tribble/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [workflow]",
	Short: "Run a workflow interactively",
	Long: `Starts a session of a workflow on the terminal. The workflow may be omitted
when the locale defines only one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			opts.Workflow = args[0]
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.RunSession(sigCtx, opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Bool("plain", false, "Print markdown as is, without terminal styling")
	runCmd.Flags().Int("max-input", runner.DefaultMaxInputSize, "Maximum size of one answer in bytes")
}
