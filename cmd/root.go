// Package cmd implements the fundmesh CLI: an HTTP server for the full
// advisory pipeline, a terminal consultation mode, and an MCP server
// exposing the market data analytics.
package cmd

import "github.com/spf13/cobra"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fundmesh",
		Short:         "Multi-agent fund advisory pipeline",
		Long:          "fundmesh chains a financial analyst, a portfolio architect and a risk analyst into one streaming advisory consultation, with durable session memory.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newConsultCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
