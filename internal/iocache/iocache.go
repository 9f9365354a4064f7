// Package iocache persists model results and analysis runs in SQL databases.
package iocache

import (
	"sync"

	"github.com/huangsam/touchline/internal/contract"
)

// CacheStoreManager manages the result cache and the analysis store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	result       contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResultStore returns the result CacheStore.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.result
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
