package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, "-", describe("", "Kora"))
	assert.Equal(t, "S001", describe("S001", ""))
	assert.Equal(t, "Kora (S001)", describe("S001", "Kora"))
}

func TestReadResponses(t *testing.T) {
	dir := t.TempDir()

	t.Run("object of strings", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"A_1":"yes","A_2":"no"}`), 0o644))
		responses, err := readResponses(path)
		require.NoError(t, err)
		assert.Equal(t, schema.ResponseMap{"A_1": "yes", "A_2": "no"}, responses)
	})

	t.Run("not an object", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`["yes"]`), 0o644))
		_, err := readResponses(path)
		assert.ErrorContains(t, err, "must be a JSON object")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readResponses(filepath.Join(dir, "missing.json"))
		assert.ErrorContains(t, err, "failed to read responses")
	})
}

func TestImageDataURI(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "cup.png")
	require.NoError(t, os.WriteFile(png, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...), 0o644))
	uri, err := imageDataURI(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = imageDataURI(txt)
	assert.ErrorContains(t, err, "is not an image")
}

func TestDraftEntries(t *testing.T) {
	cat := &schema.Catalog{
		Type:         "simple",
		ResponseKeys: schema.QualifiedKeys,
		Sections: []schema.ChecklistSection{
			{ID: "A", Items: []schema.ChecklistItem{{ID: "1", Weight: 1}, {ID: "2", Weight: 1}}},
		},
	}
	s := iocache.NewSession()
	s.Meta.Selection = schema.SelectionState{StoreID: "S001", StoreName: "Kora"}
	s.Meta.Set("mod", "Priya")
	s.Responses["A_2"] = "yes"
	s.Remarks["A"] = "clean"
	s.Images["A"] = []string{"data:image/png;base64,AA=="}

	entries := draftEntries(cat, s)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{
		"trainerId", "trainerName", "amId", "amName", "storeId", "storeName",
		"mod", "A_1", "A_2", "A remarks", "A images",
	}, keys)
	assert.Equal(t, "S001", entries[4].Value)
	assert.Equal(t, "", entries[7].Value)
	assert.Equal(t, "yes", entries[8].Value)
	assert.Equal(t, "1", entries[10].Value)
}
