package main

import (
	"github.com/spf13/cobra"

	"github.com/karadeck/karadeck/internal/app"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daemon",
	Long:  `Start the daemon: connect to Redis, prime the cached view, begin background reconciliation and serve the dashboard API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New()
		if err != nil {
			return err
		}
		return a.Run()
	},
}
