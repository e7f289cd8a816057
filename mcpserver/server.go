// Package mcpserver exposes the market data analytics as an MCP server, so
// AI tooling outside the advisory pipeline can call the same performance,
// correlation, news and scenario functions the agents use.
//
// This is the composition root: it creates the provider and injects it into
// the tools. No business logic lives here.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/hupe1980/fundmesh/marketdata"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with all market data tools registered.
func New(provider marketdata.Provider) *server.MCPServer {
	s := server.NewMCPServer(
		"fundmesh",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	performanceTool := NewPerformanceTool(provider)
	s.AddTool(performanceTool.Definition(), performanceTool.Handle)

	correlationTool := NewCorrelationTool(provider)
	s.AddTool(correlationTool.Definition(), correlationTool.Handle)

	newsTool := NewNewsTool(provider)
	s.AddTool(newsTool.Definition(), newsTool.Handle)

	scenarioTool := NewScenarioTool()
	s.AddTool(scenarioTool.Definition(), scenarioTool.Handle)

	return s
}

// Serve runs the server on the stdio transport until the client disconnects.
func Serve(provider marketdata.Provider) error {
	return server.ServeStdio(New(provider))
}
