package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tribble/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the workflows as a JSON API. Sessions are kept in memory and removed once idle for longer than --session-ttl.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Serve(sigCtx, opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "127.0.0.1", "Host to listen on")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the configuration when its files change")
	serveCmd.Flags().String("session-key", "", "Base64 AES-256 key encrypting stored sessions (env TRIBBLE_SESSION_KEY)")
	serveCmd.Flags().Duration("session-ttl", cli.DefaultSessionTTL, "Remove sessions idle for longer than this; 0 keeps them")
}
