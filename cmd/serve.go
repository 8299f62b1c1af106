package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"autolyze/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the profiling API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		service, runs, err := buildService(ctx)
		if err != nil {
			return err
		}

		server := ui.NewServer(ui.Config{
			Port:      cfg.Server.Port,
			OutputDir: cfg.Output.Dir,
		}, service, runs)
		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
