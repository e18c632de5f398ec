// Package parquet provides data structures and functions for exporting storecheck
// submission history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/storecheck/schema"
	"github.com/parquet-go/parquet-go"
)

// Submission represents one submission attempt.
// This struct maps to the storecheck_submissions database table.
type Submission struct {
	// SubmissionID is the uuid of the attempt
	SubmissionID string `parquet:"submission_id,snappy"`

	// ChecklistType is the catalog the submission was built from
	ChecklistType string `parquet:"checklist_type,snappy,dict"`

	// StoreID is the audited store
	StoreID string `parquet:"store_id,snappy,dict"`

	// TrainerID and AMID are nullable when the checklist has no such role
	TrainerID *string `parquet:"trainer_id,optional,snappy"`
	AMID      *string `parquet:"am_id,optional,snappy"`

	Total   float64 `parquet:"total_score,snappy"`
	Max     float64 `parquet:"max_score,snappy"`
	Percent int32   `parquet:"percent,snappy"`

	// Status is submitted, failed or dry-run
	Status    string `parquet:"status,snappy,dict"`
	Endpoints int32  `parquet:"endpoints,snappy"`

	// Error is the joined endpoint error of a failed attempt (nullable)
	Error *string `parquet:"error_message,optional,snappy"`

	FieldCount int32 `parquet:"field_count,snappy"`

	// SubmittedAt is stored as TIMESTAMP with nanosecond precision
	SubmittedAt time.Time `parquet:"submitted_at,snappy"`
}

// SubmissionField is one ordered payload entry of a submission.
// This struct maps to the storecheck_submission_fields database table.
type SubmissionField struct {
	SubmissionID string `parquet:"submission_id,snappy,dict"`
	Position     int32  `parquet:"position,snappy"`
	Key          string `parquet:"field_key,snappy,dict"`
	Value        string `parquet:"field_value,snappy"`
}

// writeParquet writes rows of any struct type to a Parquet file.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteSubmissionsParquet writes a slice of Submission structs to a Parquet file.
func WriteSubmissionsParquet(data []Submission, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSubmissionFieldsParquet writes a slice of SubmissionField structs to a Parquet file.
func WriteSubmissionFieldsParquet(data []SubmissionField, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertSubmissionRecords converts schema.SubmissionRecord to Submission for Parquet export.
func ConvertSubmissionRecords(records []schema.SubmissionRecord) []Submission {
	result := make([]Submission, len(records))
	for i, record := range records {
		result[i] = Submission{
			SubmissionID:  record.ID,
			ChecklistType: string(record.ChecklistType),
			StoreID:       record.StoreID,
			TrainerID:     nullable(record.TrainerID),
			AMID:          nullable(record.AMID),
			Total:         record.Total,
			Max:           record.Max,
			Percent:       int32(record.Percent),
			Status:        string(record.Status),
			Endpoints:     int32(record.Endpoints),
			Error:         nullable(record.Error),
			FieldCount:    int32(record.FieldCount),
			SubmittedAt:   record.SubmittedAt,
		}
	}
	return result
}

// ConvertPayloadEntries converts the ordered payload of one submission for Parquet export.
func ConvertPayloadEntries(submissionID string, entries []schema.PayloadEntry) []SubmissionField {
	result := make([]SubmissionField, len(entries))
	for i, e := range entries {
		result[i] = SubmissionField{
			SubmissionID: submissionID,
			Position:     int32(i),
			Key:          e.Key,
			Value:        e.Value,
		}
	}
	return result
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
