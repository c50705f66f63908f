package datastore

import (
	"database/sql"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// cacheTable memoizes serialized analysis bundles keyed by an input
// fingerprint. Entries are opaque to SQL; versioning and staleness are the
// caller's concern.
const cacheTable = "analysis_cache"

// SQLCacheStore implements the CacheStore interface.
type SQLCacheStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.CacheStore = &SQLCacheStore{} // Compile-time check

// createCacheTableQuery returns the CREATE TABLE query for analysis_cache.
func createCacheTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS analysis_cache (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`

	case schema.PostgreSQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS analysis_cache (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`

	default: // SQLite
		return `
			CREATE TABLE IF NOT EXISTS analysis_cache (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`
	}
}

// upsertCacheQuery returns the UPSERT query for the backend.
func upsertCacheQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `INSERT INTO analysis_cache (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`

	case schema.PostgreSQLBackend:
		return `INSERT INTO analysis_cache (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`

	default: // SQLite
		return `INSERT OR REPLACE INTO analysis_cache (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`
	}
}

// Get retrieves a value by key from the store. A missing key surfaces as
// sql.ErrNoRows, which callers treat as a cache miss.
func (s *SQLCacheStore) Get(key string) ([]byte, int, int64, error) {
	var value []byte
	var version int
	var ts int64

	query := rebind(s.backend, `SELECT cache_value, cache_version, cache_timestamp FROM analysis_cache WHERE cache_key = ?`)
	row := s.db.QueryRow(query, key)

	if err := row.Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (s *SQLCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	_, err := s.db.Exec(upsertCacheQuery(s.backend), key, value, version, timestamp)
	return err
}

// Close closes the underlying DB connection.
func (s *SQLCacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
