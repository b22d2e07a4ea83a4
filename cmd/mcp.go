package cmd

import (
	"github.com/huangsam/tomato/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [vault-path]",
	Short: "Start the Tomato MCP server",
	Long: `Launch an MCP server on stdio so AI agents can report progress, reset the
daily counters, and read the time report via standard tools.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
