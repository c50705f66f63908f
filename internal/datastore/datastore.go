// Package datastore persists glucose readings, food logs, detected crashes
// and derived artifacts across SQLite, MySQL and PostgreSQL backends.
package datastore

import (
	"database/sql"
	"sync"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// StoreManagerImpl manages the per-table store instances. All stores share
// one underlying DB connection pool, so closing any store closes them all.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization

	readings    contract.ReadingStore
	foods       contract.FoodStore
	crashes     contract.CrashStore
	assessments contract.AssessmentStore
	imports     contract.ImportStore
	cache       contract.CacheStore

	backend schema.DatabaseBackend
	db      *sql.DB
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetReadingStore returns the glucose reading store, or nil when storage is disabled.
func (mgr *StoreManagerImpl) GetReadingStore() contract.ReadingStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.readings
}

// GetFoodStore returns the food log store, or nil when storage is disabled.
func (mgr *StoreManagerImpl) GetFoodStore() contract.FoodStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.foods
}

// GetCrashStore returns the crash event store, or nil when storage is disabled.
func (mgr *StoreManagerImpl) GetCrashStore() contract.CrashStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.crashes
}

// GetAssessmentStore returns the AI assessment store, or nil when storage is disabled.
func (mgr *StoreManagerImpl) GetAssessmentStore() contract.AssessmentStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.assessments
}

// GetImportStore returns the import tracking store, or nil when storage is disabled.
func (mgr *StoreManagerImpl) GetImportStore() contract.ImportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.imports
}

// GetCacheStore returns the analysis cache store, or nil when storage is disabled.
func (mgr *StoreManagerImpl) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}
