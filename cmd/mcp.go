package cmd

import (
	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/internal/mcp"
	"github.com/huangsam/storecheck/internal/refdata"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the storecheck MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents score checklists, resolve the
trainer, area manager and store cascade, encode payloads and read submission history.

When --mapping points at a file, the mapping is reloaded whenever the file changes.`,
	Args: cobra.NoArgs,
	// Logs go to stderr so stdio stays reserved for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		var source *refdata.Source
		resolver := core.NewResolver(nil, logger)
		if cfg.Mapping != "" {
			s, r, err := loadMapping(rootCtx)
			if err != nil {
				contract.LogWarn("store mapping not loaded; resolve tools are disabled", err)
			} else {
				source, resolver = s, r
			}
		} else {
			logger.Info("no store mapping configured; resolve tools are disabled")
		}
		logger.Debug("starting MCP server", zap.Int("stores", resolver.Len()))
		return mcp.StartMCPServer(rootCtx, cfg, source, resolver, iocache.Manager, logger)
	},
}
