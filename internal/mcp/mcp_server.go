// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/refdata"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMCPServer initializes and configures the storecheck MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, resolver *core.Resolver, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Storecheck Audit Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		resolver: resolver,
		mgr:      mgr,
	}

	// --- 1. Tool: list_catalogs ---
	s.AddTool(mcp.NewTool("list_catalogs",
		mcp.WithDescription("List the built-in checklist catalogs with their sections, items and payload columns."),
	), h.handleListCatalogs)

	// --- 2. Tool: score_checklist ---
	s.AddTool(mcp.NewTool("score_checklist",
		mcp.WithDescription("Score checklist responses. Without responses the local draft is scored."),
		mcp.WithString("checklist", mcp.Description("Checklist type. Defaults to the configured checklist."), mcp.Enum("training", "brew-league-am", "hr")),
		mcp.WithString("variant", mcp.Description("Scoresheet variant, e.g. 'technical' or 'sensory'.")),
		mcp.WithObject("responses", mcp.Description("Map of response key to answer (yes, no, na, a choice label, a time or text).")),
		mcp.WithObject("images", mcp.Description("Map of section id to the number of attached images.")),
	), h.handleScoreChecklist)

	// --- 3. Tool: resolve_selection ---
	s.AddTool(mcp.NewTool("resolve_selection",
		mcp.WithDescription("Apply a cascading Trainer -> Area Manager -> Store selection and list the remaining candidates."),
		mcp.WithString("trainer_id", mcp.Description("Trainer id to select first.")),
		mcp.WithString("am_id", mcp.Description("Area manager id, must be a candidate under the trainer.")),
		mcp.WithString("store_id", mcp.Description("Store id; auto-fills its area manager and trainer.")),
		mcp.WithString("search", mcp.Description("Case-insensitive store name or id filter.")),
		mcp.WithString("hr_id", mcp.Description("List stores covered by this HRBP, regional HR or HR head instead.")),
	), h.handleResolveSelection)

	// --- 4. Tool: encode_payload ---
	s.AddTool(mcp.NewTool("encode_payload",
		mcp.WithDescription("Encode responses into the exact ordered form body a submission would post."),
		mcp.WithString("checklist", mcp.Description("Checklist type. Defaults to the configured checklist."), mcp.Enum("training", "brew-league-am", "hr")),
		mcp.WithString("variant", mcp.Description("Scoresheet variant.")),
		mcp.WithObject("responses", mcp.Description("Map of response key to answer."), mcp.Required()),
		mcp.WithObject("meta", mcp.Description("Metadata fields such as storeId, storeName, trainerId, mod.")),
		mcp.WithObject("remarks", mcp.Description("Map of section id to remarks.")),
	), h.handleEncodePayload)

	// --- 5. Tool: decode_payload ---
	s.AddTool(mcp.NewTool("decode_payload",
		mcp.WithDescription("Recover the responses from a form body produced by encode_payload or a submission."),
		mcp.WithString("checklist", mcp.Description("Checklist type. Defaults to the configured checklist."), mcp.Enum("training", "brew-league-am", "hr")),
		mcp.WithString("body", mcp.Description("Form-encoded submission body."), mcp.Required()),
	), h.handleDecodePayload)

	// --- 6. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("List recorded submissions ranked by score."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetHistory)

	return s
}

// StartMCPServer starts the storecheck MCP server on stdio. When the store mapping is a
// file, it is reloaded in the background whenever it changes.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, source *refdata.Source, resolver *core.Resolver, mgr contract.StoreManager, logger *zap.Logger) error {
	if source != nil {
		if w, err := refdata.NewWatcher(source, resolver.Replace); err == nil {
			go func() {
				if err := w.Run(ctx); err != nil {
					logger.Warn("store mapping watcher stopped", zap.Error(err))
				}
			}()
		} else {
			logger.Debug("store mapping is not watched", zap.Error(err))
		}
	}
	s := NewMCPServer(baseCfg, resolver, mgr)
	return server.ServeStdio(s)
}
