package core

import (
	"testing"

	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateMetadata tests that missing required groups are listed by label in order.
func TestValidateMetadata(t *testing.T) {
	cat := mixedCatalog()

	meta := schema.Metadata{Selection: schema.SelectionState{StoreID: "S001"}}
	err := ValidateMetadata(cat, meta)
	require.ErrorIs(t, err, ErrMissingFields)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Store Location", "Trainer", "MOD"}, missing.Labels)
	assert.Equal(t, "please fill in all required information fields: Store Location, Trainer, MOD", err.Error())

	meta.Selection = schema.SelectionState{TrainerID: "T1", TrainerName: "Tara", StoreID: "S001", StoreName: "MG Road"}
	meta.Set("mod", "  ")
	err = ValidateMetadata(cat, meta)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"MOD"}, missing.Labels)

	meta.Set("mod", "Kiran")
	assert.NoError(t, ValidateMetadata(cat, meta))
}

// TestValidateComplete tests the unanswered question listing.
func TestValidateComplete(t *testing.T) {
	cat := simpleCatalog()

	err := ValidateComplete(cat, "", schema.ResponseMap{"A_1": "yes"})
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, "please answer all questions. Missing:\nSection A: Second?", err.Error())

	assert.NoError(t, ValidateComplete(cat, "", schema.ResponseMap{"A_1": "yes", "A_2": "na"}))
}

// TestValidateCompleteTruncates tests that only the first questions are spelled out.
func TestValidateCompleteTruncates(t *testing.T) {
	cat := mixedCatalog()

	err := ValidateComplete(cat, "sensory", nil)
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	// Image items are answered by attaching images.
	assert.Len(t, incomplete.Questions, 11)
	assert.Equal(t, "please answer all questions. Missing:\n"+
		"Basics: Materials available?\n"+
		"Basics: Induction completed?\n"+
		"Basics: Employee name\n"+
		"... and 8 more", err.Error())
}

// TestValidateResponses tests rejection of answers that do not fit the catalog.
func TestValidateResponses(t *testing.T) {
	cat := mixedCatalog()

	assert.NoError(t, ValidateResponses(cat, schema.ResponseMap{
		"Basics_B_1":    "YES",
		"Basics_B_2":    "",
		"Basics_B_NAME": "anything goes",
		"Timing_Start":  "10:00:00",
		"Sensory_Taste": "Good",
	}))

	err := ValidateResponses(cat, schema.ResponseMap{
		"Basics_B_1":    "maybe",
		"Nope_1":        "yes",
		"Sensory_Taste": "Superb",
		"Timing_End":    "late",
	})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `question "Basics_B_1": answer must be yes, no or na, got "maybe"`)
	assert.Contains(t, msg, `unknown question "Nope_1"`)
	assert.Contains(t, msg, `question "Sensory_Taste": unknown choice "Superb"`)
	assert.Contains(t, msg, `question "Timing_End": time must be HH:MM:SS, got "late"`)
}
