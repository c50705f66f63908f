package datastore

import (
	"fmt"

	"github.com/mlevkov/glucodip/schema"
)

// GetStatus returns aggregate status information across all stores.
func (mgr *StoreManagerImpl) GetStatus() (schema.StoreStatus, error) {
	mgr.RLock()
	defer mgr.RUnlock()

	status := schema.StoreStatus{
		Backend:     string(mgr.backend),
		Connected:   mgr.db != nil,
		TableCounts: map[string]int{},
	}
	if status.Backend == "" {
		status.Backend = string(schema.NoneBackend)
	}
	if !status.Connected {
		return status, nil
	}

	for _, table := range storeTables {
		var count int
		row := mgr.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		status.TableCounts[table] = count
	}
	status.CacheEntries = status.TableCounts[cacheTable]

	if status.TableCounts[readingsTable] > 0 {
		var ts storedTime
		row := mgr.db.QueryRow(fmt.Sprintf("SELECT MAX(ts) FROM %s", readingsTable))
		if err := row.Scan(&ts); err != nil {
			return status, fmt.Errorf("failed to get last glucose time: %w", err)
		}
		status.LastGlucoseTime = ts.Time
	}

	if status.TableCounts[importsTable] > 0 {
		var ts storedTime
		row := mgr.db.QueryRow(fmt.Sprintf("SELECT MAX(imported_at) FROM %s", importsTable))
		if err := row.Scan(&ts); err != nil {
			return status, fmt.Errorf("failed to get last import time: %w", err)
		}
		status.LastImportTime = ts.Time
	}

	return status, nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Println("Table Counts:")
	for _, table := range storeTables {
		fmt.Printf("  %s: %d rows\n", table, status.TableCounts[table])
	}
	if !status.LastGlucoseTime.IsZero() {
		fmt.Printf("Last Glucose Reading: %s\n", status.LastGlucoseTime.Format("2006-01-02 15:04:05"))
	}
	if !status.LastImportTime.IsZero() {
		fmt.Printf("Last Import: %s\n", status.LastImportTime.Format("2006-01-02 15:04:05"))
	}
}
