package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/core/algo"
	"github.com/huangsam/storecheck/internal/catalog"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	resolver *core.Resolver
	mgr      contract.StoreManager
}

func (h *toolHandler) handleListCatalogs(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalogs, err := catalog.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load catalogs: %v", err)), nil
	}
	summaries := make([]schema.CatalogSummary, len(catalogs))
	for i, cat := range catalogs {
		summaries[i] = catalog.Summarize(cat)
	}
	return jsonResult(summaries)
}

func (h *toolHandler) handleScoreChecklist(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := h.catalog(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	var session *iocache.Session
	if _, ok := args["responses"]; ok {
		session = iocache.NewSession()
		if session.Responses, err = stringMap(args, "responses"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		counts, err := stringMap(args, "images")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for sec, n := range counts {
			count, err := strconv.Atoi(n)
			if err != nil || count < 0 {
				return mcp.NewToolResultError(fmt.Sprintf("images.%s must be a non-negative count", sec)), nil
			}
			session.Images[sec] = make([]string, count)
		}
	} else {
		if h.mgr == nil {
			return mcp.NewToolResultError("no responses given and no draft store available"), nil
		}
		if session, err = iocache.LoadSession(h.mgr.GetDraftStore(), cat); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load draft: %v", err)), nil
		}
	}

	if err := core.ValidateResponses(cat, session.Responses); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid responses: %v", err)), nil
	}
	return jsonResult(core.BuildScoreReport(cat, h.variant(request), session))
}

type selectionResult struct {
	Selection    schema.SelectionState `json:"selection"`
	Trainers     []schema.Trainer      `json:"trainers,omitempty"`
	AreaManagers []schema.AreaManager  `json:"area_managers,omitempty"`
	Stores       []schema.StoreRecord  `json:"stores"`
	Warnings     []string              `json:"warnings,omitempty"`
}

func (h *toolHandler) handleResolveSelection(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.resolver == nil || h.resolver.Len() == 0 {
		return mcp.NewToolResultError("no store mapping loaded: start the server with --mapping"), nil
	}
	r := h.resolver.Fork()

	if hrID := request.GetString("hr_id", ""); hrID != "" {
		return jsonResult(selectionResult{Stores: r.StoresForHR(hrID)})
	}

	var out selectionResult
	if id := request.GetString("trainer_id", ""); id != "" {
		r.SetTrainer(id)
	}
	if id := request.GetString("am_id", ""); id != "" {
		if err := r.SetAM(id); err != nil {
			out.Warnings = append(out.Warnings, err.Error())
		}
	}
	if id := request.GetString("store_id", ""); id != "" {
		if !r.SelectStore(id) {
			out.Warnings = append(out.Warnings, fmt.Sprintf("store %s not found", id))
		}
	}

	out.Selection = r.State()
	if out.Selection.TrainerID == "" {
		out.Trainers = r.Trainers()
	}
	out.AreaManagers = r.AreaManagers()
	out.Stores = r.Stores(request.GetString("search", ""))
	return jsonResult(out)
}

type encodeResult struct {
	Body    string                `json:"body"`
	Entries []schema.PayloadEntry `json:"entries"`
	Score   schema.ScoreResult    `json:"score"`
}

func (h *toolHandler) handleEncodePayload(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := h.catalog(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	session := iocache.NewSession()
	if session.Responses, err = stringMap(args, "responses"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if session.Remarks, err = stringMap(args, "remarks"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, err := stringMap(args, "meta")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	applyMeta(&session.Meta, meta)
	if sel := &session.Meta.Selection; sel.StoreID != "" && sel.Region == "" && h.resolver != nil {
		if rec, ok := h.resolver.LookupStore(sel.StoreID); ok && rec.StoreID == sel.StoreID {
			sel.Region = rec.Region
		}
	}

	cfg := h.baseCfg
	score, payload, err := core.Prepare(cat, h.variant(request), session, false, cfg.Now(), cfg.Location)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode: %v", err)), nil
	}
	return jsonResult(encodeResult{Body: payload.Encode(), Entries: payload.Entries(), Score: score})
}

func (h *toolHandler) handleDecodePayload(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := h.catalog(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := request.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	responses, err := core.Decode(cat, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(responses)
}

func (h *toolHandler) handleGetHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetHistoryStore() == nil {
		return mcp.NewToolResultError("history is disabled: set --history-backend"), nil
	}
	records, err := h.mgr.GetHistoryStore().GetAllSubmissions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %v", err)), nil
	}
	limit := h.baseCfg.Limit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}
	return jsonResult(schema.EnrichSubmissions(algo.RankSubmissions(records, limit)))
}

// catalog resolves the requested checklist, falling back to the configured one.
func (h *toolHandler) catalog(request mcp.CallToolRequest) (*schema.Catalog, error) {
	if c := request.GetString("checklist", ""); c != "" {
		return catalog.Load(schema.ChecklistType(strings.ToLower(c)))
	}
	return catalog.Resolve(h.baseCfg.Checklist, h.baseCfg.CatalogFile)
}

func (h *toolHandler) variant(request mcp.CallToolRequest) string {
	return strings.ToLower(request.GetString("variant", h.baseCfg.Variant))
}

// stringMap reads an optional object argument whose values are scalars.
func stringMap(args map[string]any, name string) (map[string]string, error) {
	out := make(map[string]string)
	raw, ok := args[name]
	if !ok || raw == nil {
		return out, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", name)
	}
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
		default:
			return nil, fmt.Errorf("%s.%s must be a string or number", name, k)
		}
	}
	return out, nil
}

// applyMeta writes metadata fields, routing selection fields into the selection state.
func applyMeta(meta *schema.Metadata, fields map[string]string) {
	for k, v := range fields {
		v = strings.TrimSpace(v)
		switch k {
		case schema.FieldTrainerID:
			meta.Selection.TrainerID = schema.NormalizeID(v)
		case schema.FieldTrainerName:
			meta.Selection.TrainerName = v
		case schema.FieldAMID:
			meta.Selection.AMID = schema.NormalizeID(v)
		case schema.FieldAMName:
			meta.Selection.AMName = v
		case schema.FieldStoreID:
			meta.Selection.StoreID = schema.NormalizeID(v)
		case schema.FieldStoreName:
			meta.Selection.StoreName = v
		default:
			meta.Set(k, v)
		}
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
