//go:build basic

// Package integration contains integration tests for storecheck.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStorecheckWithLocalBackends runs the audit flow on a JSON draft file and SQLite history.
func TestStorecheckWithLocalBackends(t *testing.T) {
	dir := t.TempDir()
	env := []string{
		"STORECHECK_DRAFT_BACKEND=file",
		"STORECHECK_DRAFT_DB_CONNECT=" + filepath.Join(dir, "drafts.json"),
		"STORECHECK_HISTORY_BACKEND=sqlite",
		"STORECHECK_HISTORY_DB_CONNECT=" + filepath.Join(dir, "history.db"),
	}
	runAuditFlow(t, env)

	out := filepath.Join(dir, "audits")
	mustRun(t, env, "history", "export", "--output-file", out)
	for _, suffix := range []string{".submissions.parquet", ".submission_fields.parquet"} {
		_, err := os.Stat(out + suffix)
		assert.NoError(t, err, suffix)
	}
}

// TestStorecheckColumnsMatchPayload checks the dry-run payload against the published columns.
func TestStorecheckColumnsMatchPayload(t *testing.T) {
	dir := t.TempDir()
	env := []string{
		"HOME=" + dir,
		"STORECHECK_DRAFT_BACKEND=file",
		"STORECHECK_DRAFT_DB_CONNECT=" + filepath.Join(dir, "drafts.json"),
	}

	var columns []string
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, env, "catalog", "columns", "--checklist", "hr", "--output", "json")), &columns))
	require.NotEmpty(t, columns)

	var catalogs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, env, "catalog", "list", "--output", "json")), &catalogs))
	assert.Len(t, catalogs, 3)
}

// TestStorecheckScoreFile scores a response file without touching any draft.
func TestStorecheckScoreFile(t *testing.T) {
	dir := t.TempDir()
	responses := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(responses, []byte(`{"TrainingMaterials_TM_1":"yes","TrainingMaterials_TM_2":"no"}`), 0o644))

	env := []string{"HOME=" + dir, "STORECHECK_DRAFT_BACKEND=none"}
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, env, "score", responses, "--output", "json")), &report))
	assert.Equal(t, "training", report["checklist"])

	_, err := runStorecheck(t, env, "score", responses, "--checklist", "unknown")
	assert.Error(t, err)
}
