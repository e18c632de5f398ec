package iocache

import (
	"time"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetDraftStore implements the StoreManager interface.
func (m *MockStoreManager) GetDraftStore() contract.DraftStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DraftStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockDraftStore is a mock implementation of DraftStore for testing.
type MockDraftStore struct {
	mock.Mock
}

var _ contract.DraftStore = &MockDraftStore{} // Compile-time check

// Get implements the DraftStore interface.
func (m *MockDraftStore) Get(key string) ([]byte, time.Time, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	ts, _ := args.Get(1).(time.Time)
	return data, ts, args.Error(2)
}

// Set implements the DraftStore interface.
func (m *MockDraftStore) Set(key string, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// Delete implements the DraftStore interface.
func (m *MockDraftStore) Delete(keys ...string) error {
	args := m.Called(keys)
	return args.Error(0)
}

// Keys implements the DraftStore interface.
func (m *MockDraftStore) Keys() ([]string, error) {
	args := m.Called()
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

// GetStatus implements the DraftStore interface.
func (m *MockDraftStore) GetStatus() (schema.DraftStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.DraftStatus), args.Error(1)
}

// Close implements the DraftStore interface.
func (m *MockDraftStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordSubmission implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSubmission(record schema.SubmissionRecord, payload schema.SubmissionPayload) error {
	args := m.Called(record, payload)
	return args.Error(0)
}

// GetAllSubmissions implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSubmissions() ([]schema.SubmissionRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.SubmissionRecord)
	return records, args.Error(1)
}

// GetSubmissionFields implements the HistoryStore interface.
func (m *MockHistoryStore) GetSubmissionFields(id string) ([]schema.PayloadEntry, error) {
	args := m.Called(id)
	entries, _ := args.Get(0).([]schema.PayloadEntry)
	return entries, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
