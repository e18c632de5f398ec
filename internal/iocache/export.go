package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/parquet"
)

// ExecuteHistoryExport exports submission history to two Parquet files next to outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalSubmissions == 0 {
		return errors.New("no submission history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total submissions: %d\n", status.TotalSubmissions)

	records, err := store.GetAllSubmissions()
	if err != nil {
		return fmt.Errorf("failed to retrieve submissions: %w", err)
	}

	var fields []parquet.SubmissionField
	for _, r := range records {
		entries, err := store.GetSubmissionFields(r.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve fields of submission %s: %w", r.ID, err)
		}
		fields = append(fields, parquet.ConvertPayloadEntries(r.ID, entries)...)
	}

	submissionsFile := outputFile + ".submissions.parquet"
	submissions := parquet.ConvertSubmissionRecords(records)
	if err := parquet.WriteSubmissionsParquet(submissions, submissionsFile); err != nil {
		return fmt.Errorf("failed to write submissions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d submissions to: %s\n", len(submissions), submissionsFile)

	fieldsFile := outputFile + ".submission_fields.parquet"
	if err := parquet.WriteSubmissionFieldsParquet(fields, fieldsFile); err != nil {
		return fmt.Errorf("failed to write submission fields: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d submission fields to: %s\n", len(fields), fieldsFile)

	return nil
}
