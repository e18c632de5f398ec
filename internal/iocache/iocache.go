package iocache

import (
	"sync"

	"github.com/huangsam/storecheck/internal/contract"
)

// StoreManager manages the draft and history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	draft        contract.DraftStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps already opened stores, mainly for tests and embedding.
func NewStoreManager(draft contract.DraftStore, history contract.HistoryStore) *StoreManager {
	return &StoreManager{draft: draft, history: history}
}

// GetDraftStore returns the DraftStore.
func (mgr *StoreManager) GetDraftStore() contract.DraftStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.draft
}

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
