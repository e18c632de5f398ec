package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadBuiltins tests the shape of every embedded catalog.
func TestLoadBuiltins(t *testing.T) {
	tests := []struct {
		checklist schema.ChecklistType
		sections  int
		items     int
		columns   int
		storage   []string
	}{
		{schema.TrainingChecklist, 10, 145, 170, []string{"training_resp", "training_meta", "training_remarks"}},
		{schema.BrewLeagueAMChecklist, 14, 97, 129, []string{"brewLeagueAMResp", "brewLeagueAMMeta", "brewLeagueAMRemarks", "brewLeagueAMImgs"}},
		{schema.HRChecklist, 1, 12, 37, []string{"hr_resp", "hr_meta", "hr_remarks"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.checklist), func(t *testing.T) {
			cat, err := Load(tt.checklist)
			require.NoError(t, err)
			assert.Equal(t, tt.checklist, cat.Type)
			assert.Len(t, cat.Sections, tt.sections)
			assert.Equal(t, tt.items, cat.ItemCount())
			assert.Len(t, core.Columns(cat), tt.columns)
			assert.Equal(t, tt.storage, cat.Storage.All())
		})
	}
}

// TestLoadUnknown tests the error for a checklist without a built-in catalog.
func TestLoadUnknown(t *testing.T) {
	_, err := Load("qa")
	assert.ErrorIs(t, err, ErrUnknownChecklist)
}

// TestTrainingCatalog tests the training layout and its perfect score.
func TestTrainingCatalog(t *testing.T) {
	cat, err := Load(schema.TrainingChecklist)
	require.NoError(t, err)

	cols := core.Columns(cat)
	assert.Equal(t, []string{"timestamp", "trainerName", "trainerId"}, cols[:3])
	assert.Equal(t, "TM_1", cols[15])
	assert.Equal(t, "AP_remarks", cols[len(cols)-1])

	dupes := 0
	for _, c := range cols {
		if c == "PH_1" {
			dupes++
		}
	}
	assert.Equal(t, 2, dupes, "PH_1 repeats across the food and coffee assessments")

	responses := schema.ResponseMap{}
	for _, sec := range cat.Sections {
		for _, item := range sec.Items {
			if item.EffectiveKind() == schema.CheckItem {
				responses[cat.ResponseKey(sec.ID, item.ID)] = "yes"
			}
		}
	}
	result := core.Score(cat, "", responses, nil)
	assert.Equal(t, 100.0, result.Max)
	assert.Equal(t, 100.0, result.Total)
	assert.Equal(t, 100, result.Percent)
	assert.Equal(t, map[string]float64{"TSA_Food": 10, "TSA_Coffee": 10, "TSA_CX": 10}, result.BucketScores)

	assert.Equal(t, "Trainer (Auditor)", cat.RequiredLabel(schema.FieldTrainerID))
}

// TestBrewLeagueCatalog tests variant filtering and the image item.
func TestBrewLeagueCatalog(t *testing.T) {
	cat, err := Load(schema.BrewLeagueAMChecklist)
	require.NoError(t, err)
	assert.Equal(t, []string{"technical", "sensory"}, cat.Variants)

	sensory := cat.ActiveSections("sensory")
	require.Len(t, sensory, 1)
	assert.Equal(t, "SensoryScore", sensory[0].ID)
	assert.Len(t, cat.ActiveSections("technical"), 13)

	_, item, ok := cat.FindItem("SensoryScore_CupImages")
	require.True(t, ok)
	assert.Equal(t, schema.ImageItem, item.EffectiveKind())

	_, item, ok = cat.FindItem("EspressoDialIn_DialInStartTime")
	require.True(t, ok)
	assert.Equal(t, schema.TimeItem, item.EffectiveKind())
}

// TestHRCatalog tests reverse-scored choices and item-keyed responses.
func TestHRCatalog(t *testing.T) {
	cat, err := Load(schema.HRChecklist)
	require.NoError(t, err)

	_, q1, ok := cat.FindItem("q1")
	require.True(t, ok)
	score, ok := q1.ChoiceScore("Never")
	require.True(t, ok)
	assert.Equal(t, 5.0, score)

	_, q10, ok := cat.FindItem("q10")
	require.True(t, ok)
	assert.Equal(t, schema.TextItem, q10.EffectiveKind())

	cols := core.Columns(cat)
	assert.Equal(t, []string{"q1", "q1_remarks"}, cols[10:12])
	assert.Equal(t, []string{"totalScore", "maxScore", "percent"}, cols[len(cols)-3:])

	result := core.Score(cat, "", schema.ResponseMap{"q1": "Never", "q2": "Never"}, nil)
	assert.Equal(t, 6.0, result.Total)
	assert.Equal(t, 50.0, result.Max)
	assert.Equal(t, 12, result.Percent)
}

// TestList tests that built-ins are listed in type order.
func TestList(t *testing.T) {
	catalogs, err := List()
	require.NoError(t, err)
	var types []schema.ChecklistType
	for _, c := range catalogs {
		types = append(types, c.Type)
	}
	assert.Equal(t, []schema.ChecklistType{schema.BrewLeagueAMChecklist, schema.HRChecklist, schema.TrainingChecklist}, types)
}

// TestHRPayloadRegion tests that the HR payload carries the region of the selected store.
func TestHRPayloadRegion(t *testing.T) {
	cat, err := Load(schema.HRChecklist)
	require.NoError(t, err)

	r := core.NewResolver([]schema.StoreRecord{
		{StoreID: "S001", StoreName: "MG Road", Region: "South", AMID: "AM1", AMName: "Ravi"},
	}, nil)
	require.True(t, r.SelectStore("S001"))

	region := func(sel schema.SelectionState) string {
		payload, err := core.Encode(core.Submission{Catalog: cat, Meta: schema.Metadata{Selection: sel}})
		require.NoError(t, err)
		for _, e := range payload.Entries() {
			if e.Key == "region" {
				return e.Value
			}
		}
		t.Fatal("region column missing")
		return ""
	}
	assert.Equal(t, "South", region(r.State()))
	assert.Equal(t, "Unknown", region(schema.SelectionState{StoreID: "S001"}))
}

const minimalYAML = `
type: mini
sections:
  - id: A
    title: Section A
    items:
      - {id: "1", question: "First?", weight: 2}
payload:
  keyStyle: qualified
  header:
    - {key: total, source: score.total}
storage: {responses: mini_resp, meta: mini_meta}
`

// TestParseRejectsInvalidCatalogs tests structural validation.
func TestParseRejectsInvalidCatalogs(t *testing.T) {
	_, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{name: "unknown field", yaml: minimalYAML + "colour: blue\n", errMsg: "field colour not found"},
		{name: "no type", yaml: "sections: []\n", errMsg: "catalog has no type"},
		{name: "no sections", yaml: "type: x\n", errMsg: "no sections"},
		{
			name:   "duplicate section",
			yaml:   "type: x\nsections:\n  - {id: A, items: [{id: '1'}]}\n  - {id: A, items: [{id: '2'}]}\n",
			errMsg: `duplicate section "A"`,
		},
		{
			name:   "undeclared variant",
			yaml:   "type: x\nsections:\n  - {id: A, variant: night, items: [{id: '1'}]}\n",
			errMsg: `undeclared variant "night"`,
		},
		{
			name:   "choice without choices",
			yaml:   "type: x\nsections:\n  - {id: A, items: [{id: '1', kind: choice}]}\n",
			errMsg: "choice item without choices",
		},
		{
			name:   "invalid kind",
			yaml:   "type: x\nsections:\n  - {id: A, items: [{id: '1', kind: slider}]}\n",
			errMsg: `invalid kind "slider"`,
		},
		{
			name:   "colliding response keys",
			yaml:   "type: x\nresponseKeys: item\nsections:\n  - {id: A, items: [{id: '1'}]}\n  - {id: B, items: [{id: '1'}]}\n",
			errMsg: `duplicate response key "1"`,
		},
		{
			name:   "bad layout",
			yaml:   "type: x\nsections:\n  - {id: A, items: [{id: '1'}]}\npayload: {keyStyle: item, header: [{key: k, source: bucket.Z}]}\n",
			errMsg: `unknown section "Z"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestParseMarkdown tests the Markdown catalog format.
func TestParseMarkdown(t *testing.T) {
	cat, err := LoadFile(filepath.Join("testdata", "store-visit.md"))
	require.NoError(t, err)

	assert.Equal(t, schema.ChecklistType("store-visit"), cat.Type)
	assert.Equal(t, "Store Visit", cat.Title)
	require.Len(t, cat.Sections, 2)

	clean := cat.Sections[0]
	assert.Equal(t, "CL", clean.RemarksPrefix())
	require.Len(t, clean.Items, 3)
	assert.Equal(t, schema.ChecklistItem{ID: "CL_1", Question: "Floor clean?", Weight: 2}, clean.Items[0])
	assert.Equal(t, -1.0, clean.Items[1].NoWeight())
	assert.Equal(t, "Bins emptied (before opening)", clean.Items[2].Question)
	assert.Equal(t, 1.0, clean.Items[2].Weight)

	skills := cat.Sections[1]
	assert.Equal(t, "Skill Assessment", skills.Title)
	assert.True(t, skills.Bucketed)
	assert.Equal(t, "morning", skills.Variant)
	assert.Equal(t, schema.TextItem, skills.Items[0].EffectiveKind())
	assert.Equal(t, []schema.Choice{{Label: "Poor", Score: 1}, {Label: "Good", Score: 3}, {Label: "Great", Score: 5}}, skills.Items[2].Choices)

	assert.Equal(t, []string{"storeId", "skillScore", "CL_1", "CL_2", "CL_3", "SK_NAME", "SK_1", "SK_2", "CL_remarks", "Skills_remarks", "percent"}, core.Columns(cat))
}

// TestParseMarkdownErrors tests rejection of malformed Markdown catalogs.
func TestParseMarkdownErrors(t *testing.T) {
	tests := []struct {
		name   string
		md     string
		errMsg string
	}{
		{name: "list before section", md: "---\ntype: x\n---\n- [A] q\n", errMsg: "before the first section"},
		{name: "bad heading", md: "---\ntype: x\n---\n## not an id!\n", errMsg: "invalid section heading"},
		{name: "unknown section option", md: "---\ntype: x\n---\n## A {shiny}\n- [1] q\n", errMsg: `unknown option "shiny"`},
		{name: "bad item", md: "---\ntype: x\n---\n## A\n- no id here\n", errMsg: "invalid question"},
		{name: "sections in front matter", md: "---\ntype: x\nsections: [{id: A}]\n---\n", errMsg: "declare sections as headings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMarkdown([]byte(tt.md))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestLoadFile tests extension dispatch and user catalogs overriding built-ins.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "mini.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(minimalYAML), 0o644))

	cat, err := Resolve(schema.TrainingChecklist, yamlPath)
	require.NoError(t, err)
	assert.Equal(t, schema.ChecklistType("mini"), cat.Type)

	cat, err = Resolve(schema.HRChecklist, "")
	require.NoError(t, err)
	assert.Equal(t, schema.HRChecklist, cat.Type)

	txtPath := filepath.Join(dir, "mini.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(minimalYAML), 0o644))
	_, err = LoadFile(txtPath)
	assert.ErrorContains(t, err, "unsupported catalog file")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog file")
}
