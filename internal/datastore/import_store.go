package datastore

import (
	"database/sql"
	"fmt"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// importsTable tracks which export files were already ingested. A file is
// keyed by name plus mtime so a re-export with fresh data is picked up while
// an untouched file is skipped.
const importsTable = "imported_files"

// SQLImportStore implements the ImportStore interface.
type SQLImportStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ImportStore = &SQLImportStore{} // Compile-time check

// createImportsTableQuery returns the CREATE TABLE query for imported_files.
func createImportsTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS imported_files (
				file_name VARCHAR(255) NOT NULL,
				file_mtime_ms BIGINT NOT NULL,
				run_id VARCHAR(64) NOT NULL,
				imported_at DATETIME(6) NOT NULL,
				PRIMARY KEY (file_name, file_mtime_ms)
			);
		`

	case schema.PostgreSQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS imported_files (
				file_name TEXT NOT NULL,
				file_mtime_ms BIGINT NOT NULL,
				run_id TEXT NOT NULL,
				imported_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (file_name, file_mtime_ms)
			);
		`

	default: // SQLite
		return `
			CREATE TABLE IF NOT EXISTS imported_files (
				file_name TEXT NOT NULL,
				file_mtime_ms INTEGER NOT NULL,
				run_id TEXT NOT NULL,
				imported_at TEXT NOT NULL,
				PRIMARY KEY (file_name, file_mtime_ms)
			);
		`
	}
}

// upsertImportQuery returns the UPSERT query for the backend.
func upsertImportQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `INSERT INTO imported_files (file_name, file_mtime_ms, run_id, imported_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE run_id = new.run_id, imported_at = new.imported_at`

	case schema.PostgreSQLBackend:
		return `INSERT INTO imported_files (file_name, file_mtime_ms, run_id, imported_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (file_name, file_mtime_ms) DO UPDATE SET run_id = EXCLUDED.run_id, imported_at = EXCLUDED.imported_at`

	default: // SQLite
		return `INSERT OR REPLACE INTO imported_files (file_name, file_mtime_ms, run_id, imported_at) VALUES (?, ?, ?, ?)`
	}
}

// IsImported reports whether a file with the given name and mtime was already ingested.
func (s *SQLImportStore) IsImported(fileName string, mtimeMs int64) (bool, error) {
	query := rebind(s.backend, `SELECT COUNT(*) FROM imported_files WHERE file_name = ? AND file_mtime_ms = ?`)
	var count int
	if err := s.db.QueryRow(query, fileName, mtimeMs).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check import status for %q: %w", fileName, err)
	}
	return count > 0, nil
}

// RecordImport records a completed file ingestion.
func (s *SQLImportStore) RecordImport(rec schema.ImportedFile) error {
	query := upsertImportQuery(s.backend)
	_, err := s.db.Exec(query, rec.FileName, rec.MtimeMs, rec.RunID, formatTime(rec.ImportedAt, s.backend))
	if err != nil {
		return fmt.Errorf("failed to record import of %q: %w", rec.FileName, err)
	}
	return nil
}

// ListImports returns the most recent import records, newest first.
func (s *SQLImportStore) ListImports(limit int) ([]schema.ImportedFile, error) {
	query := rebind(s.backend, `SELECT file_name, file_mtime_ms, run_id, imported_at FROM imported_files ORDER BY imported_at DESC LIMIT ?`)
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []schema.ImportedFile{}
	for rows.Next() {
		var importedAt storedTime
		var rec schema.ImportedFile
		if err := rows.Scan(&rec.FileName, &rec.MtimeMs, &rec.RunID, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import record: %w", err)
		}
		rec.ImportedAt = importedAt.Time
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the underlying DB connection.
func (s *SQLImportStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
