// Package iocache keeps the metadata cache and the report history in SQL databases.
package iocache

import (
	"sync"

	"github.com/huangsam/tomato/internal/contract"
)

// CacheStoreManager manages the metadata cache and history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	metadata     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetMetadataStore returns the metadata CacheStore, or nil when caching is not initialized.
func (mgr *CacheStoreManager) GetMetadataStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metadata
}

// GetHistoryStore returns the HistoryStore, or nil when history is disabled.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
