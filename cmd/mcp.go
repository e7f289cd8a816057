package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/fundmesh/marketdata"
	"github.com/hupe1980/fundmesh/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the market data analytics as an MCP server (stdio transport)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return mcpserver.Serve(marketdata.NewStaticProvider())
		},
	}
}
