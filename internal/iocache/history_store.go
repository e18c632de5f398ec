package iocache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// Table names for submission history.
const (
	submissionsTable      = "storecheck_submissions"
	submissionFieldsTable = "storecheck_submission_fields"
)

// HistoryTables lists the history tables in creation order.
var HistoryTables = []string{submissionsTable, submissionFieldsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the submission history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{submissionsTable, getCreateSubmissionsQuery(backend)},
		{submissionFieldsTable, getCreateSubmissionFieldsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateSubmissionsQuery returns the CREATE TABLE query for storecheck_submissions.
func getCreateSubmissionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(submissionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id VARCHAR(36) PRIMARY KEY,
				checklist_type VARCHAR(64) NOT NULL,
				store_id VARCHAR(64) NOT NULL,
				trainer_id VARCHAR(64),
				am_id VARCHAR(64),
				total_score DOUBLE NOT NULL,
				max_score DOUBLE NOT NULL,
				percent INT NOT NULL,
				status VARCHAR(16) NOT NULL,
				endpoints INT NOT NULL,
				error_message TEXT,
				field_count INT NOT NULL,
				submitted_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id TEXT PRIMARY KEY,
				checklist_type TEXT NOT NULL,
				store_id TEXT NOT NULL,
				trainer_id TEXT,
				am_id TEXT,
				total_score DOUBLE PRECISION NOT NULL,
				max_score DOUBLE PRECISION NOT NULL,
				percent INT NOT NULL,
				status TEXT NOT NULL,
				endpoints INT NOT NULL,
				error_message TEXT,
				field_count INT NOT NULL,
				submitted_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id TEXT PRIMARY KEY,
				checklist_type TEXT NOT NULL,
				store_id TEXT NOT NULL,
				trainer_id TEXT,
				am_id TEXT,
				total_score REAL NOT NULL,
				max_score REAL NOT NULL,
				percent INTEGER NOT NULL,
				status TEXT NOT NULL,
				endpoints INTEGER NOT NULL,
				error_message TEXT,
				field_count INTEGER NOT NULL,
				submitted_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateSubmissionFieldsQuery returns the CREATE TABLE query for storecheck_submission_fields.
func getCreateSubmissionFieldsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(submissionFieldsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id VARCHAR(36) NOT NULL,
				position INT NOT NULL,
				field_key VARCHAR(255) NOT NULL,
				field_value MEDIUMTEXT NOT NULL,
				PRIMARY KEY (submission_id, position)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id TEXT NOT NULL,
				position INT NOT NULL,
				field_key TEXT NOT NULL,
				field_value TEXT NOT NULL,
				PRIMARY KEY (submission_id, position)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				field_key TEXT NOT NULL,
				field_value TEXT NOT NULL,
				PRIMARY KEY (submission_id, position)
			);
		`, quotedTableName)
	}
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// RecordSubmission stores a submission outcome and its ordered payload in one transaction.
func (hs *HistoryStoreImpl) RecordSubmission(record schema.SubmissionRecord, payload schema.SubmissionPayload) error {
	if hs.disabled() {
		return nil
	}
	if record.ID == "" {
		return errors.New("submission id is required")
	}
	record.FieldCount = payload.Len()

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRecord := fmt.Sprintf(`
		INSERT INTO %s (submission_id, checklist_type, store_id, trainer_id, am_id,
		                total_score, max_score, percent, status, endpoints,
		                error_message, field_count, submitted_at)
		VALUES (%s)
	`, quoteTableName(submissionsTable, hs.backend), placeholders(hs.backend, 13))
	if _, err := tx.Exec(insertRecord,
		record.ID, string(record.ChecklistType), record.StoreID, record.TrainerID, record.AMID,
		record.Total, record.Max, record.Percent, string(record.Status), record.Endpoints,
		record.Error, record.FieldCount, formatTime(record.SubmittedAt, hs.backend),
	); err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", record.ID, err)
	}

	insertField := fmt.Sprintf(`INSERT INTO %s (submission_id, position, field_key, field_value) VALUES (%s)`,
		quoteTableName(submissionFieldsTable, hs.backend), placeholders(hs.backend, 4))
	stmt, err := tx.Prepare(insertField)
	if err != nil {
		return fmt.Errorf("failed to prepare field insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, entry := range payload.Entries() {
		if _, err := stmt.Exec(record.ID, i, entry.Key, entry.Value); err != nil {
			return fmt.Errorf("failed to insert field %d of submission %s: %w", i, record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission %s: %w", record.ID, err)
	}
	return nil
}

// GetAllSubmissions retrieves every submission, newest first.
func (hs *HistoryStoreImpl) GetAllSubmissions() ([]schema.SubmissionRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT submission_id, checklist_type, store_id, trainer_id, am_id,
		total_score, max_score, percent, status, endpoints, error_message, field_count, submitted_at
		FROM %s ORDER BY submitted_at DESC, submission_id`, quoteTableName(submissionsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SubmissionRecord
	for rows.Next() {
		var (
			record              schema.SubmissionRecord
			checklist, status   string
			trainer, am, errMsg sql.NullString
			submitted           = timeScanner{backend: hs.backend}
		)
		if err := rows.Scan(&record.ID, &checklist, &record.StoreID, &trainer, &am,
			&record.Total, &record.Max, &record.Percent, &status, &record.Endpoints,
			&errMsg, &record.FieldCount, submitted.target()); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		record.ChecklistType = schema.ChecklistType(checklist)
		record.Status = schema.SubmissionStatus(status)
		record.TrainerID, record.AMID, record.Error = trainer.String, am.String, errMsg.String
		if record.SubmittedAt, err = submitted.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return results, nil
}

// GetSubmissionFields returns the ordered payload of one submission.
func (hs *HistoryStoreImpl) GetSubmissionFields(id string) ([]schema.PayloadEntry, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT field_key, field_value FROM %s WHERE submission_id = %s ORDER BY position`,
		quoteTableName(submissionFieldsTable, hs.backend), placeholder(hs.backend, 1))
	rows, err := hs.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields of submission %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schema.PayloadEntry
	for rows.Next() {
		var e schema.PayloadEntry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan submission field: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission fields: %w", err)
	}
	return entries, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	quotedSubmissions := quoteTableName(submissionsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedSubmissions)).Scan(&status.TotalSubmissions); err != nil {
		return status, fmt.Errorf("failed to get total submissions: %w", err)
	}

	if status.TotalSubmissions > 0 {
		failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = %s", quotedSubmissions, placeholder(hs.backend, 1))
		if err := hs.db.QueryRow(failedQuery, string(schema.FailedStatus)).Scan(&status.FailedSubmissions); err != nil {
			return status, fmt.Errorf("failed to get failed submissions: %w", err)
		}

		last := timeScanner{backend: hs.backend}
		lastQuery := fmt.Sprintf("SELECT submission_id, submitted_at FROM %s ORDER BY submitted_at DESC LIMIT 1", quotedSubmissions)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastSubmissionID, last.target()); err != nil {
			return status, fmt.Errorf("failed to get last submission: %w", err)
		}
		lastTime, err := last.value()
		if err != nil {
			return status, err
		}
		status.LastSubmissionTime = lastTime

		oldest := timeScanner{backend: hs.backend}
		oldestQuery := fmt.Sprintf("SELECT submitted_at FROM %s ORDER BY submitted_at ASC LIMIT 1", quotedSubmissions)
		if err := hs.db.QueryRow(oldestQuery).Scan(oldest.target()); err != nil {
			return status, fmt.Errorf("failed to get oldest submission: %w", err)
		}
		oldestTime, err := oldest.value()
		if err != nil {
			return status, err
		}
		status.OldestSubmissionTime = oldestTime
	}

	for _, table := range HistoryTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}
