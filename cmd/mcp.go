package cmd

import (
	"github.com/huangsam/peloton/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Peloton MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents list races, rank stages and classify races in the portal.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Nothing else may write to stdout: stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := loadPortal()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, s)
	},
}
