package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/catalog"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
	mcp_internal "github.com/huangsam/storecheck/internal/mcp"
	"github.com/huangsam/storecheck/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRecords() []schema.StoreRecord {
	return []schema.StoreRecord{
		{StoreID: "S001", StoreName: "Indiranagar", Region: "South", AMID: "AM1", AMName: "Asha",
			TrainerIDs: [3]string{"T1", "", ""}, TrainerNames: [3]string{"Ravi", "", ""}, HRBPIDs: [3]string{"H1", "", ""}},
		{StoreID: "S002", StoreName: "Koramangala", Region: "South", AMID: "AM2", AMName: "Bala",
			TrainerIDs: [3]string{"T2", "T1", ""}, TrainerNames: [3]string{"Meena", "Ravi", ""}},
		{StoreID: "S003", StoreName: "Bandra", Region: "West", AMID: "AM2", AMName: "Bala",
			TrainerIDs: [3]string{"T3", "", ""}, TrainerNames: [3]string{"Kiran", "", ""}},
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func newServer(mgr contract.StoreManager) *server.MCPServer {
	cfg := &contract.Config{Checklist: schema.TrainingChecklist, Limit: 10, Location: time.UTC}
	return mcp_internal.NewMCPServer(cfg, core.NewResolver(testRecords(), nil), mgr)
}

func TestListCatalogs(t *testing.T) {
	res := callTool(t, newServer(nil), "list_catalogs", nil)
	require.False(t, res.IsError)

	var summaries []schema.CatalogSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, schema.BrewLeagueAMChecklist, summaries[0].Type)
	for _, s := range summaries {
		assert.Positive(t, s.Columns)
		assert.GreaterOrEqual(t, s.Columns, s.Items)
	}
}

func TestScoreChecklist(t *testing.T) {
	t.Run("given responses", func(t *testing.T) {
		res := callTool(t, newServer(nil), "score_checklist", map[string]any{
			"responses": map[string]any{"TrainingMaterials_TM_1": "yes", "TrainingMaterials_TM_2": "no"},
		})
		require.False(t, res.IsError, resultText(t, res))

		var report schema.ScoreReport
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
		assert.Equal(t, schema.TrainingChecklist, report.Checklist)
		tm, ok := report.Section("TrainingMaterials")
		require.True(t, ok)
		assert.Equal(t, 1.0, tm.Earned)
		assert.Equal(t, 2, tm.Answered)
	})

	t.Run("unknown question", func(t *testing.T) {
		res := callTool(t, newServer(nil), "score_checklist", map[string]any{
			"responses": map[string]any{"NOPE": "yes"},
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), `unknown question "NOPE"`)
	})

	t.Run("responses must be an object", func(t *testing.T) {
		res := callTool(t, newServer(nil), "score_checklist", map[string]any{"responses": "yes"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "responses must be an object")
	})

	t.Run("falls back to the draft", func(t *testing.T) {
		drafts := &iocache.MockDraftStore{}
		drafts.On("Get", mock.Anything).Return(nil, time.Time{}, nil)
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetDraftStore").Return(drafts)

		res := callTool(t, newServer(mgr), "score_checklist", map[string]any{})
		require.False(t, res.IsError, resultText(t, res))
		assert.Contains(t, resultText(t, res), `"checklist": "training"`)
		drafts.AssertExpectations(t)
	})

	t.Run("no draft store", func(t *testing.T) {
		res := callTool(t, newServer(nil), "score_checklist", map[string]any{})
		assert.True(t, res.IsError)
	})
}

func TestResolveSelection(t *testing.T) {
	s := newServer(nil)

	t.Run("store auto-fills upstream", func(t *testing.T) {
		res := callTool(t, s, "resolve_selection", map[string]any{"store_id": "s002"})
		require.False(t, res.IsError)
		text := resultText(t, res)
		assert.Contains(t, text, `"amId": "AM2"`)
		assert.Contains(t, text, `"trainerId": "T2"`)
	})

	t.Run("trainer narrows stores", func(t *testing.T) {
		res := callTool(t, s, "resolve_selection", map[string]any{"trainer_id": "T1"})
		text := resultText(t, res)
		assert.Contains(t, text, "S001")
		assert.Contains(t, text, "S002")
		assert.NotContains(t, text, "S003")
	})

	t.Run("am outside trainer warns", func(t *testing.T) {
		res := callTool(t, s, "resolve_selection", map[string]any{"trainer_id": "T3", "am_id": "AM1"})
		assert.Contains(t, resultText(t, res), "not a candidate")
	})

	t.Run("hr stores", func(t *testing.T) {
		res := callTool(t, s, "resolve_selection", map[string]any{"hr_id": "h1"})
		text := resultText(t, res)
		assert.Contains(t, text, "S001")
		assert.NotContains(t, text, "S002")
	})

	t.Run("calls do not share selection", func(t *testing.T) {
		res := callTool(t, s, "resolve_selection", map[string]any{})
		text := resultText(t, res)
		assert.Contains(t, text, `"storeId": ""`)
		assert.Contains(t, text, "S003")
	})

	t.Run("no mapping", func(t *testing.T) {
		cfg := &contract.Config{Checklist: schema.TrainingChecklist}
		empty := mcp_internal.NewMCPServer(cfg, core.NewResolver(nil, nil), nil)
		res := callTool(t, empty, "resolve_selection", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "--mapping")
	})
}

func TestEncodePayload(t *testing.T) {
	s := newServer(nil)

	t.Run("missing metadata", func(t *testing.T) {
		res := callTool(t, s, "encode_payload", map[string]any{
			"responses": map[string]any{"TrainingMaterials_TM_1": "yes"},
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Store Location")
	})

	t.Run("ordered body", func(t *testing.T) {
		res := callTool(t, s, "encode_payload", map[string]any{
			"responses": map[string]any{"TrainingMaterials_TM_1": "yes"},
			"meta": map[string]any{
				"storeId": "S001", "storeName": "Indiranagar", "trainerId": "T1", "trainerName": "Ravi",
				"amId": "AM1", "amName": "Asha", "mod": "Priya",
			},
			"remarks": map[string]any{"TrainingMaterials": "clean & tidy"},
		})
		require.False(t, res.IsError, resultText(t, res))

		var out struct {
			Body    string                `json:"body"`
			Entries []schema.PayloadEntry `json:"entries"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Contains(t, out.Body, "TM_1=yes")
		assert.Contains(t, out.Body, "TM_remarks=clean+%26+tidy")
		assert.Less(t, strings.Index(out.Body, "TM_1="), strings.Index(out.Body, "TM_2="))

		keys := make([]string, len(out.Entries))
		for i, e := range out.Entries {
			keys[i] = e.Key
		}
		cat, err := catalog.Load(schema.TrainingChecklist)
		require.NoError(t, err)
		assert.Equal(t, core.Columns(cat), keys)
	})
}

func TestEncodePayloadRegion(t *testing.T) {
	res := callTool(t, newServer(nil), "encode_payload", map[string]any{
		"checklist": "hr",
		"meta": map[string]any{
			"hrName": "Neha", "hrId": "H1", "amName": "Asha", "amId": "AM1",
			"empName": "Kiran", "empId": "E7", "storeName": "Indiranagar", "storeId": "s001",
		},
	})
	require.False(t, res.IsError, resultText(t, res))

	var out struct {
		Body string `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Contains(t, out.Body, "&region=South&")
}

func TestDecodePayload(t *testing.T) {
	s := newServer(nil)

	t.Run("round trip", func(t *testing.T) {
		res := callTool(t, s, "encode_payload", map[string]any{
			"responses": map[string]any{"TrainingMaterials_TM_1": "yes", "TrainingMaterials_TM_2": "no"},
			"meta": map[string]any{
				"storeId": "S001", "storeName": "Indiranagar", "trainerId": "T1", "trainerName": "Ravi",
				"amId": "AM1", "amName": "Asha", "mod": "Priya",
			},
		})
		require.False(t, res.IsError, resultText(t, res))
		var encoded struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &encoded))

		res = callTool(t, s, "decode_payload", map[string]any{"body": encoded.Body})
		require.False(t, res.IsError, resultText(t, res))
		var responses map[string]string
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &responses))
		assert.Equal(t, "yes", responses["TrainingMaterials_TM_1"])
		assert.Equal(t, "no", responses["TrainingMaterials_TM_2"])

		cat, err := catalog.Load(schema.TrainingChecklist)
		require.NoError(t, err)
		assert.Len(t, responses, cat.ItemCount())
	})

	t.Run("truncated body", func(t *testing.T) {
		res := callTool(t, s, "decode_payload", map[string]any{"body": "timestamp=x&TM_1=yes"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "decode body")
	})
}

func TestGetHistory(t *testing.T) {
	now := time.Now()
	history := &iocache.MockHistoryStore{}
	history.On("GetAllSubmissions").Return([]schema.SubmissionRecord{
		{ID: "a", Percent: 50, SubmittedAt: now},
		{ID: "b", Percent: 95, SubmittedAt: now},
	}, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(history)

	res := callTool(t, newServer(mgr), "get_history", map[string]any{"limit": 1.0})
	require.False(t, res.IsError)

	var ranked []schema.RankedSubmission
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, "Excellent", ranked[0].Label)
}
