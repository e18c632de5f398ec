// Package iocache persists drafts and submission history.
package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// draftTable is the name of the table for draft storage.
const draftTable = "storecheck_drafts"

// DraftStoreImpl handles draft storage using various database backends.
type DraftStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.DraftStore = &DraftStoreImpl{} // Compile-time check

// NewDraftStore initializes and returns a new DraftStore based on the backend type.
func NewDraftStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.DraftStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	switch backend {
	case schema.NoneBackend:
		// Return a no-op store for disabled drafts
		return &DraftStoreImpl{tableName: tableName, backend: backend}, nil
	case schema.FileBackend:
		return NewFileDraftStore(connStr)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported draft backend: %s. Must be sqlite, mysql, postgresql, file, or none", backend)
	}

	db, err := openDB(backend, connStr, GetDraftDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateDraftTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &DraftStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateDraftTableQuery returns the CREATE TABLE query for the given backend.
func getCreateDraftTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				draft_key VARCHAR(255) PRIMARY KEY,
				draft_value LONGBLOB NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				draft_key TEXT PRIMARY KEY,
				draft_value BYTEA NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				draft_key TEXT PRIMARY KEY,
				draft_value BLOB NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

func (ds *DraftStoreImpl) disabled() bool {
	return ds.backend == schema.NoneBackend || ds.db == nil
}

// Get retrieves a value and its last update time. A missing key returns a nil value.
func (ds *DraftStoreImpl) Get(key string) ([]byte, time.Time, error) {
	if ds.disabled() {
		return nil, time.Time{}, nil
	}

	quotedTableName := quoteTableName(ds.tableName, ds.backend)
	query := fmt.Sprintf(`SELECT draft_value, updated_at FROM %s WHERE draft_key = %s`, quotedTableName, placeholder(ds.backend, 1))

	var value []byte
	var ts int64
	if err := ds.db.QueryRow(query, key).Scan(&value, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to read draft key %s: %w", key, err)
	}
	return value, time.UnixMilli(ts), nil
}

// Set inserts or replaces a key/value pair in the store.
func (ds *DraftStoreImpl) Set(key string, value []byte) error {
	if ds.disabled() {
		return nil
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := ds.db.Exec(ds.getUpsertQuery(), key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to write draft key %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are ignored.
func (ds *DraftStoreImpl) Delete(keys ...string) error {
	if ds.disabled() || len(keys) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE draft_key IN (%s)`,
		quoteTableName(ds.tableName, ds.backend), placeholders(ds.backend, len(keys)))
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := ds.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete draft keys: %w", err)
	}
	return nil
}

// Keys returns every stored key in ascending order.
func (ds *DraftStoreImpl) Keys() ([]string, error) {
	if ds.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT draft_key FROM %s ORDER BY draft_key`, quoteTableName(ds.tableName, ds.backend))
	rows, err := ds.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan draft key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ds *DraftStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(ds.tableName, ds.backend)
	switch ds.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (draft_key, draft_value, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE draft_value = new.draft_value, updated_at = new.updated_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (draft_key, draft_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (draft_key) DO UPDATE SET draft_value = EXCLUDED.draft_value, updated_at = EXCLUDED.updated_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (draft_key, draft_value, updated_at) VALUES (?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (ds *DraftStoreImpl) Close() error {
	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}

// GetStatus returns status information about the draft store.
func (ds *DraftStoreImpl) GetStatus() (schema.DraftStatus, error) {
	status := schema.DraftStatus{
		Backend:   string(ds.backend),
		Connected: ds.db != nil,
	}
	if ds.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(ds.tableName, ds.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ds.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(updated_at), MIN(updated_at) FROM %s", quotedTableName)
	if err := ds.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.UnixMilli(lastTs)
	status.OldestEntryTime = time.UnixMilli(oldestTs)

	// Rough estimate unless the backend reports a real size
	status.TableSizeBytes = int64(status.TotalEntries) * 1000
	switch ds.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ds.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ds.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		_ = ds.db.QueryRow(sizeQuery, cfg.DBName, ds.tableName).Scan(&status.TableSizeBytes)
	case schema.PostgreSQLBackend:
		_ = ds.db.QueryRow("SELECT pg_total_relation_size($1)", ds.tableName).Scan(&status.TableSizeBytes)
	}

	return status, nil
}
