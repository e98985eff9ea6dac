package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "romagate",
	Short: "HTTP gateway for recursive task-decomposition solves",
	Long: `Romagate fronts a recursive solve engine with an HTTP gateway.

It accepts analysis requests, resolves quality tiers to concrete model
endpoints, fans out to one or more providers, and merges their answers
in a deterministic order. Deadlines are soft: a slow solve stops being
waited on, not stopped.

With no arguments, starts the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
