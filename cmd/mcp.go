package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/touchline/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the Touchline MCP server",
	Long:    `Launch an MCP server over stdio that allows AI agents to inspect pitches, tracking and events and run kinematics via standard tools.`,
	PreRunE: commandSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
