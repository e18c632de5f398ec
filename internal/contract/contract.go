// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/storecheck/schema"
)

// StoreManager defines the interface for managing draft and history stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetDraftStore() DraftStore
	GetHistoryStore() HistoryStore
}

// DraftStore defines the interface for the local key-value draft storage.
// A missing key is not an error: Get returns a nil value and a zero time.
type DraftStore interface {
	Get(key string) ([]byte, time.Time, error)
	Set(key string, value []byte) error
	Delete(keys ...string) error
	Keys() ([]string, error)
	GetStatus() (schema.DraftStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording submissions and their payloads.
type HistoryStore interface {
	// RecordSubmission stores a submission outcome together with its ordered payload
	RecordSubmission(record schema.SubmissionRecord, payload schema.SubmissionPayload) error

	// GetAllSubmissions returns every recorded submission, newest first
	GetAllSubmissions() ([]schema.SubmissionRecord, error)

	// GetSubmissionFields returns the ordered payload of one submission
	GetSubmissionFields(id string) ([]schema.PayloadEntry, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}

// Sink defines the interface for delivering a submission payload to its endpoints.
type Sink interface {
	Submit(ctx context.Context, payload schema.SubmissionPayload) error
	Endpoints() []string
}

// ReferenceSource defines the interface for loading the normalized store mapping.
type ReferenceSource interface {
	Load(ctx context.Context) ([]schema.StoreRecord, error)
}
