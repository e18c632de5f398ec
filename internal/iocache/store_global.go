package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDraftDBFilePath returns the path to the SQLite DB file for drafts.
func GetDraftDBFilePath() string {
	return contract.GetDraftDBFilePath()
}

// GetDraftJSONFilePath returns the path to the JSON document of the file draft backend.
func GetDraftJSONFilePath() string {
	return contract.GetDraftJSONFilePath()
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for submission history.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitStores initializes the global manager with separate draft and history stores.
// Either backend can be empty to leave that store uninitialized.
func InitStores(draftBackend schema.DatabaseBackend, draftConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var draftStore contract.DraftStore
		if draftBackend != "" {
			draftStore, err = NewDraftStore(draftTable, draftBackend, draftConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize draft store: %w", err)
				return
			}
		}

		var historyStore contract.HistoryStore
		if historyBackend != "" {
			historyStore, err = NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				if draftStore != nil {
					_ = draftStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.draft = draftStore
		Manager.history = historyStore
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.draft != nil {
			_ = Manager.draft.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearDrafts removes all draft storage for the specified backend.
// For SQLite and file backends, it deletes the file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
func ClearDrafts(backend schema.DatabaseBackend, path, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.FileBackend:
		return removeFile(path)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, draftTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported draft backend for clearing: %s", backend)
	}
}

// ClearHistory removes all submission history for the specified backend.
func ClearHistory(backend schema.DatabaseBackend, path, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(path)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		// Fields first, then the parent table, then migrate bookkeeping
		return clearSQLTables(backend, connStr, submissionFieldsTable, submissionsTable, "schema_migrations")
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

func removeFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty for file-based backends")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
