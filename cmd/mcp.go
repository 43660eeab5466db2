package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/internal/manifest"
	"github.com/solartools/epdload/internal/mcp"
	"github.com/solartools/epdload/schema"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the epdload MCP server",
	Long: `Launch an MCP server that allows AI agents to load and synchronize EPD
data via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Use minimal setup so the server can start without a sensor or
		// date range; tool calls carry their own selection.
		return minimalSetupWrapper(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		var store contract.ManifestStore
		if cfg.ManifestBackend != schema.NoneBackend {
			opened, err := manifest.OpenStore(cfg.ManifestBackend, cfg.ManifestDBConnect)
			if err != nil {
				contract.LogWarn("manifest store unavailable, downloads will not be recorded", err)
			} else {
				store = opened
				defer func() { _ = store.Close() }()
			}
		}
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
