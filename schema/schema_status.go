package schema

import "time"

// StoreStatus represents the status of the backing store.
type StoreStatus struct {
	Backend         string         `json:"backend"`
	Connected       bool           `json:"connected"`
	TableCounts     map[string]int `json:"table_counts"`
	LastGlucoseTime time.Time      `json:"last_glucose_time"`
	LastImportTime  time.Time      `json:"last_import_time"`
	CacheEntries    int            `json:"cache_entries"`
}
