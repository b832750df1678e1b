package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "karadeck",
	Short: "Local daemon for the karadeck bookmark dashboard",
	Long: `karadeck keeps a Karakeep-compatible bookmark store, a local Redis
cache and the dashboard in sync. It serves the dashboard API, applies
mutations optimistically, and bridges to the browser extension for
open-tab capture.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
