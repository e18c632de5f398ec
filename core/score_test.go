package core

import (
	"testing"

	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScoreScenarios covers the reference scoring scenarios on the two-item catalog.
func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name      string
		responses schema.ResponseMap
		total     float64
		max       float64
		percent   int
	}{
		{
			name:      "yes and no without negative weight",
			responses: schema.ResponseMap{"A_1": "yes", "A_2": "no"},
			total:     2, max: 5, percent: 40,
		},
		{
			name:      "na excludes the item",
			responses: schema.ResponseMap{"A_1": "na", "A_2": "yes"},
			total:     3, max: 3, percent: 100,
		},
		{
			name:      "all yes",
			responses: schema.ResponseMap{"A_1": "yes", "A_2": "yes"},
			total:     5, max: 5, percent: 100,
		},
		{
			name:      "fully unanswered",
			responses: schema.ResponseMap{},
			total:     0, max: 5, percent: 0,
		},
		{
			name:      "answers are case and space insensitive",
			responses: schema.ResponseMap{"A_1": " YES ", "A_2": "Na"},
			total:     2, max: 2, percent: 100,
		},
		{
			name:      "all na gives zero percent",
			responses: schema.ResponseMap{"A_1": "na", "A_2": "na"},
			total:     0, max: 0, percent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(simpleCatalog(), "", tt.responses, nil)
			assert.Equal(t, tt.total, result.Total)
			assert.Equal(t, tt.max, result.Max)
			assert.Equal(t, tt.percent, result.Percent)
		})
	}
}

// TestScoreAllYesIsPerfect checks that a fully "yes" form scores 100 across weighted and bucketed sections.
func TestScoreAllYesIsPerfect(t *testing.T) {
	cat := mixedCatalog()
	responses := schema.ResponseMap{}
	for _, sec := range cat.ActiveSections("technical") {
		for _, item := range sec.Items {
			if item.EffectiveKind() == schema.CheckItem {
				responses[cat.ResponseKey(sec.ID, item.ID)] = "yes"
			}
		}
	}

	result := Score(cat, "technical", responses, nil)
	assert.Equal(t, result.Max, result.Total)
	assert.Equal(t, 100, result.Percent)
	assert.Equal(t, 25.0, result.Total)
}

// TestScoreNAIsIdempotent checks that marking an item na drops its weight from max once.
func TestScoreNAIsIdempotent(t *testing.T) {
	cat := simpleCatalog()
	responses := schema.ResponseMap{"A_1": "yes"}
	before := Score(cat, "", responses, nil)

	responses["A_2"] = "na"
	after := Score(cat, "", responses, nil)
	assert.Equal(t, before.Max-3, after.Max)
	assert.Equal(t, before.Total, after.Total)

	responses["A_2"] = "na"
	again := Score(cat, "", responses, nil)
	assert.Equal(t, after, again)
}

// TestScoreNegativeWeight checks that a "no" on an item with a negative weight reduces the total.
func TestScoreNegativeWeight(t *testing.T) {
	cat := mixedCatalog()
	result := Score(cat, "technical", schema.ResponseMap{"Basics_B_1": "yes", "Basics_B_2": "no"}, nil)

	basics, ok := result.Section("Basics")
	require.True(t, ok)
	assert.Equal(t, -3.0, basics.Earned)
	assert.Equal(t, 5.0, basics.Max)
	assert.Equal(t, 2, basics.Answered)
	assert.Equal(t, 2, basics.Items, "text items are not scored")
}

// TestScoreBucketedSection tests the 85/75 rubric on a bucketed section.
func TestScoreBucketedSection(t *testing.T) {
	tests := []struct {
		name     string
		answers  []string
		expected float64
	}{
		{name: "all correct", answers: []string{"yes", "yes", "yes", "yes"}, expected: 10},
		{name: "75 percent", answers: []string{"yes", "yes", "yes", "no"}, expected: 5},
		{name: "50 percent", answers: []string{"yes", "yes", "no", "no"}, expected: 0},
		{name: "na is excluded from the share", answers: []string{"yes", "yes", "yes", "na"}, expected: 10},
		{name: "only na answered", answers: []string{"na", "na", "", ""}, expected: 0},
		{name: "nothing answered", answers: []string{"", "", "", ""}, expected: 0},
		{name: "unanswered items are ignored", answers: []string{"yes", "", "", ""}, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := schema.ResponseMap{"TSA_EMP": "E100"}
			for i, a := range tt.answers {
				responses[schema.QualifiedKey("TSA", []string{"PH_1", "PH_2", "PH_3", "PH_4"}[i])] = a
			}
			result := Score(mixedCatalog(), "technical", responses, nil)

			tsa, ok := result.Section("TSA")
			require.True(t, ok)
			assert.True(t, tsa.Bucketed)
			assert.Equal(t, tt.expected, tsa.Earned)
			assert.Equal(t, schema.BucketMaxPoints, tsa.Max)
			assert.Equal(t, tt.expected, result.BucketScores["TSA"])
		})
	}
}

// TestScoreDuplicateItemIDs checks that items sharing an id in different sections score independently.
func TestScoreDuplicateItemIDs(t *testing.T) {
	responses := schema.ResponseMap{"TSA_PH_1": "no", "TSA2_PH_1": "yes"}
	result := Score(mixedCatalog(), "technical", responses, nil)

	assert.Equal(t, 0.0, result.BucketScores["TSA"])
	assert.Equal(t, 10.0, result.BucketScores["TSA2"])
}

// TestScoreChoiceAndImageItems tests choice scoring and image presence scoring.
func TestScoreChoiceAndImageItems(t *testing.T) {
	cat := mixedCatalog()
	tests := []struct {
		name   string
		taste  string
		images schema.ImageMap
		earned float64
	}{
		{name: "good choice without images", taste: "Good", earned: 3},
		{name: "great choice with image", taste: "Great", images: schema.ImageMap{"Sensory": {"data:image/png;base64,AA=="}}, earned: 10},
		{name: "unknown choice", taste: "Excellent", earned: 0},
		{name: "unanswered choice", taste: "", earned: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(cat, "sensory", schema.ResponseMap{"Sensory_Taste": tt.taste}, tt.images)
			sensory, ok := result.Section("Sensory")
			require.True(t, ok)
			assert.Equal(t, tt.earned, sensory.Earned)
			assert.Equal(t, 10.0, sensory.Max)
		})
	}
}

// TestScoreVariantFiltering checks that sections of other variants are not scored.
func TestScoreVariantFiltering(t *testing.T) {
	cat := mixedCatalog()

	technical := Score(cat, "technical", nil, nil)
	_, hasSensory := technical.Section("Sensory")
	assert.False(t, hasSensory)
	_, hasTiming := technical.Section("Timing")
	assert.True(t, hasTiming)

	all := Score(cat, "", nil, nil)
	assert.Len(t, all.Sections, len(cat.Sections))
}

// TestGetProgress tests completion counting with bucketed sections as single units.
func TestGetProgress(t *testing.T) {
	cat := mixedCatalog()

	empty := GetProgress(cat, "technical", nil)
	assert.Equal(t, schema.Progress{Completed: 0, Total: 4, Percent: 0}, empty)

	partial := GetProgress(cat, "technical", schema.ResponseMap{
		"Basics_B_1":    "yes",
		"Basics_B_NAME": "Asha",
		"TSA_PH_1":      "yes",
		"TSA_PH_2":      "no",
	})
	assert.Equal(t, schema.Progress{Completed: 2, Total: 4, Percent: 50}, partial)

	sensory := GetProgress(cat, "sensory", schema.ResponseMap{"Sensory_Taste": "Good"})
	assert.Equal(t, 6, sensory.Total)
	assert.Equal(t, 1, sensory.Completed)
	assert.Equal(t, 17, sensory.Percent)
}
