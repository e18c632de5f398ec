package schema

import "time"

// DraftStatus represents the status of the draft store.
type DraftStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the submission history store.
type HistoryStatus struct {
	Backend              string           `json:"backend"`
	Connected            bool             `json:"connected"`
	TotalSubmissions     int              `json:"total_submissions"`
	FailedSubmissions    int              `json:"failed_submissions"`
	LastSubmissionID     string           `json:"last_submission_id"`
	LastSubmissionTime   time.Time        `json:"last_submission_time"`
	OldestSubmissionTime time.Time        `json:"oldest_submission_time"`
	TableSizes           map[string]int64 `json:"table_sizes"`
}

// SubmissionRecord represents a row from the storecheck_submissions table.
type SubmissionRecord struct {
	ID            string           `json:"id"`
	ChecklistType ChecklistType    `json:"checklist_type"`
	StoreID       string           `json:"store_id"`
	TrainerID     string           `json:"trainer_id"`
	AMID          string           `json:"am_id"`
	Total         float64          `json:"total"`
	Max           float64          `json:"max"`
	Percent       int              `json:"percent"`
	Status        SubmissionStatus `json:"status"`
	Endpoints     int              `json:"endpoints"`
	Error         string           `json:"error,omitempty"`
	FieldCount    int              `json:"field_count"`
	SubmittedAt   time.Time        `json:"submitted_at"`
}
