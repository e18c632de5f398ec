package iocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
)

// fileEntry is one key of the file draft document.
type fileEntry struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileDraftStore keeps every draft key in one JSON document. Each write takes an
// exclusive flock on <path>.lock and replaces the document via rename.
type FileDraftStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

var _ contract.DraftStore = &FileDraftStore{} // Compile-time check

// NewFileDraftStore creates a file-backed draft store. An empty path uses ~/.storecheck_draft.json.
func NewFileDraftStore(path string) (*FileDraftStore, error) {
	if path == "" {
		path = GetDraftJSONFilePath()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileDraftStore{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the document path.
func (fd *FileDraftStore) Path() string {
	return fd.path
}

// Get retrieves a value and its last update time. A missing key returns a nil value.
func (fd *FileDraftStore) Get(key string) ([]byte, time.Time, error) {
	var out []byte
	var ts time.Time
	err := fd.withLock(false, func(doc map[string]fileEntry) (bool, error) {
		if e, ok := doc[key]; ok {
			out, ts = []byte(e.Value), e.UpdatedAt
		}
		return false, nil
	})
	return out, ts, err
}

// Set inserts or replaces a key.
func (fd *FileDraftStore) Set(key string, value []byte) error {
	return fd.withLock(true, func(doc map[string]fileEntry) (bool, error) {
		doc[key] = fileEntry{Value: string(value), UpdatedAt: time.Now().UTC()}
		return true, nil
	})
}

// Delete removes the given keys. Missing keys are ignored.
func (fd *FileDraftStore) Delete(keys ...string) error {
	return fd.withLock(true, func(doc map[string]fileEntry) (bool, error) {
		changed := false
		for _, k := range keys {
			if _, ok := doc[k]; ok {
				delete(doc, k)
				changed = true
			}
		}
		return changed, nil
	})
}

// Keys returns every stored key in ascending order.
func (fd *FileDraftStore) Keys() ([]string, error) {
	var keys []string
	err := fd.withLock(false, func(doc map[string]fileEntry) (bool, error) {
		for k := range doc {
			keys = append(keys, k)
		}
		return false, nil
	})
	slices.Sort(keys)
	return keys, err
}

// GetStatus returns status information about the draft document.
func (fd *FileDraftStore) GetStatus() (schema.DraftStatus, error) {
	status := schema.DraftStatus{Backend: string(schema.FileBackend), Connected: true}
	err := fd.withLock(false, func(doc map[string]fileEntry) (bool, error) {
		status.TotalEntries = len(doc)
		for _, e := range doc {
			if status.LastEntryTime.IsZero() || e.UpdatedAt.After(status.LastEntryTime) {
				status.LastEntryTime = e.UpdatedAt
			}
			if status.OldestEntryTime.IsZero() || e.UpdatedAt.Before(status.OldestEntryTime) {
				status.OldestEntryTime = e.UpdatedAt
			}
		}
		return false, nil
	})
	if info, statErr := os.Stat(fd.path); statErr == nil {
		status.TableSizeBytes = info.Size()
	}
	return status, err
}

// Close releases the lock file handle.
func (fd *FileDraftStore) Close() error {
	return fd.lock.Close()
}

// withLock loads the document under the file lock, runs fn, and writes the document
// back when fn reports a change.
func (fd *FileDraftStore) withLock(write bool, fn func(map[string]fileEntry) (bool, error)) error {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	var err error
	if write {
		err = fd.lock.Lock()
	} else {
		err = fd.lock.RLock()
	}
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fd.lock.Path(), err)
	}
	defer func() { _ = fd.lock.Unlock() }()

	doc, err := fd.read()
	if err != nil {
		return err
	}
	changed, err := fn(doc)
	if err != nil || !changed || !write {
		return err
	}
	return fd.write(doc)
}

func (fd *FileDraftStore) read() (map[string]fileEntry, error) {
	doc := make(map[string]fileEntry)
	data, err := os.ReadFile(fd.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file %s: %w", fd.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("draft file %s is corrupt: %w", fd.path, err)
	}
	return doc, nil
}

// write replaces the document atomically with a temp file and rename.
func (fd *FileDraftStore) write(doc map[string]fileEntry) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft file: %w", err)
	}
	dir := filepath.Dir(fd.path)
	tmp, err := os.CreateTemp(dir, ".storecheck-draft-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, fd.path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", fd.path, err)
	}
	return nil
}
