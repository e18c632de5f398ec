package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/storecheck/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.SubmissionRecord {
	at := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)
	return []schema.SubmissionRecord{
		{
			ID: "a1", ChecklistType: schema.TrainingChecklist, StoreID: "S001", TrainerID: "T1", AMID: "AM1",
			Total: 20, Max: 25, Percent: 80, Status: schema.SubmittedStatus, Endpoints: 2, FieldCount: 170,
			SubmittedAt: at,
		},
		{
			ID: "b2", ChecklistType: schema.HRChecklist, StoreID: "S002",
			Total: 6, Max: 50, Percent: 12, Status: schema.FailedStatus, Endpoints: 1,
			Error: "POST https://x: endpoint rejected submission: 500", FieldCount: 37,
			SubmittedAt: at.Add(time.Hour),
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"submission", new(Submission), []string{
			"submission_id", "checklist_type", "store_id", "trainer_id", "am_id", "total_score",
			"max_score", "percent", "status", "endpoints", "error_message", "field_count", "submitted_at",
		}},
		{"field", new(SubmissionField), []string{"submission_id", "position", "field_key", "field_value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteSubmissionsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.parquet")
	data := ConvertSubmissionRecords(sampleRecords())
	require.NoError(t, WriteSubmissionsParquet(data, path))

	got := readAll[Submission](t, path)
	require.Len(t, got, 2)

	assert.Equal(t, "a1", got[0].SubmissionID)
	require.NotNil(t, got[0].TrainerID)
	assert.Equal(t, "T1", *got[0].TrainerID)
	assert.Nil(t, got[0].Error)
	assert.WithinDuration(t, data[0].SubmittedAt, got[0].SubmittedAt, time.Nanosecond)

	assert.Nil(t, got[1].TrainerID)
	assert.Nil(t, got[1].AMID)
	require.NotNil(t, got[1].Error)
	assert.Contains(t, *got[1].Error, "rejected")
	assert.Equal(t, int32(12), got[1].Percent)
}

func TestWriteSubmissionFieldsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.parquet")
	entries := []schema.PayloadEntry{
		{Key: "storeId", Value: "S001"},
		{Key: "PH_1", Value: "yes"},
		{Key: "PH_1", Value: "no"},
	}
	require.NoError(t, WriteSubmissionFieldsParquet(ConvertPayloadEntries("a1", entries), path))

	got := readAll[SubmissionField](t, path)
	require.Len(t, got, 3)
	for i, f := range got {
		assert.Equal(t, "a1", f.SubmissionID)
		assert.Equal(t, int32(i), f.Position)
		assert.Equal(t, entries[i].Key, f.Key)
		assert.Equal(t, entries[i].Value, f.Value)
	}
}

func TestWriteEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSubmissionsParquet(nil, path))
	assert.Empty(t, readAll[Submission](t, path))
}

func TestWriteInvalidPath(t *testing.T) {
	err := WriteSubmissionsParquet(nil, "/nonexistent/dir/file.parquet")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
