package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for persistent storage.
func GetDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// InitStores initializes the global store manager. With NoneBackend or an
// empty backend the manager stays empty and every getter returns nil, which
// downstream code treats as storage disabled.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" || backend == schema.NoneBackend {
			Manager.Lock()
			defer Manager.Unlock()
			Manager.backend = schema.NoneBackend
			Manager.db = nil
			Manager.readings = nil
			Manager.foods = nil
			Manager.crashes = nil
			Manager.assessments = nil
			Manager.imports = nil
			Manager.cache = nil
			return
		}

		db, err := openSQLDB(backend, connStr)
		if err != nil {
			initErr = err
			return
		}

		if err := ensureTables(db, backend); err != nil {
			_ = db.Close()
			initErr = err
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.backend = backend
		Manager.db = db
		Manager.readings = &SQLReadingStore{db: db, backend: backend}
		Manager.foods = &SQLFoodStore{db: db, backend: backend}
		Manager.crashes = &SQLCrashStore{db: db, backend: backend}
		Manager.assessments = &SQLAssessmentStore{db: db, backend: backend}
		Manager.imports = &SQLImportStore{db: db, backend: backend}
		Manager.cache = &SQLCacheStore{db: db, backend: backend}
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.db != nil {
			_ = Manager.db.Close()
		}
	})
}

// storeTables lists every table the store layer owns, in creation order.
var storeTables = []string{
	readingsTable,
	foodsTable,
	crashesTable,
	assessmentsTable,
	importsTable,
	cacheTable,
}

// ClearStore wipes all persisted data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTables("mysql", connStr, storeTables)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", connStr, storeTables)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops each table if it exists.
func clearSQLTables(driverName, connStr string, tableNames []string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, tableName := range tableNames {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableName, err)
		}
	}

	return nil
}
