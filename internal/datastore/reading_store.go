package datastore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// readingsTable holds raw CGM samples. Derived fields like velocity are
// recomputed at analysis time from the current config, never persisted.
const readingsTable = "glucose_readings"

// SQLReadingStore implements the ReadingStore interface.
type SQLReadingStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ReadingStore = &SQLReadingStore{} // Compile-time check

// createReadingsTableQuery returns the CREATE TABLE query for glucose_readings.
func createReadingsTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS glucose_readings (
				ts DATETIME(6) NOT NULL PRIMARY KEY,
				glucose_mg_dl DOUBLE NOT NULL,
				run_id VARCHAR(64) NOT NULL
			);
		`

	case schema.PostgreSQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS glucose_readings (
				ts TIMESTAMPTZ NOT NULL PRIMARY KEY,
				glucose_mg_dl DOUBLE PRECISION NOT NULL,
				run_id TEXT NOT NULL
			);
		`

	default: // SQLite
		return `
			CREATE TABLE IF NOT EXISTS glucose_readings (
				ts TEXT NOT NULL PRIMARY KEY,
				glucose_mg_dl REAL NOT NULL,
				run_id TEXT NOT NULL
			);
		`
	}
}

// upsertReadingQuery returns the UPSERT query for the backend. A sensor
// re-export of the same timestamp replaces the stored value.
func upsertReadingQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `INSERT INTO glucose_readings (ts, glucose_mg_dl, run_id) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE glucose_mg_dl = new.glucose_mg_dl, run_id = new.run_id`

	case schema.PostgreSQLBackend:
		return `INSERT INTO glucose_readings (ts, glucose_mg_dl, run_id) VALUES ($1, $2, $3)
			ON CONFLICT (ts) DO UPDATE SET glucose_mg_dl = EXCLUDED.glucose_mg_dl, run_id = EXCLUDED.run_id`

	default: // SQLite
		return `INSERT OR REPLACE INTO glucose_readings (ts, glucose_mg_dl, run_id) VALUES (?, ?, ?)`
	}
}

// PutReadings batch upserts readings inside one transaction.
func (s *SQLReadingStore) PutReadings(runID string, readings []schema.GlucoseReading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin readings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertReadingQuery(s.backend))
	if err != nil {
		return fmt.Errorf("failed to prepare readings upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range readings {
		if _, err := stmt.Exec(formatTime(r.Timestamp, s.backend), r.GlucoseMgDl, runID); err != nil {
			return fmt.Errorf("failed to store reading at %s: %w", r.Timestamp.Format(time.RFC3339), err)
		}
	}

	return tx.Commit()
}

// GetReadings returns readings with timestamps in [start, end], sorted ascending.
func (s *SQLReadingStore) GetReadings(start, end time.Time) ([]schema.GlucoseReading, error) {
	query := rebind(s.backend, `SELECT ts, glucose_mg_dl FROM glucose_readings WHERE ts >= ? AND ts <= ? ORDER BY ts ASC`)
	rows, err := s.db.Query(query, formatTime(start, s.backend), formatTime(end, s.backend))
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	readings := []schema.GlucoseReading{}
	for rows.Next() {
		var ts storedTime
		var r schema.GlucoseReading
		if err := rows.Scan(&ts, &r.GlucoseMgDl); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		r.Timestamp = ts.Time
		readings = append(readings, r)
	}

	return readings, rows.Err()
}

// LatestReadingTime returns the newest stored timestamp, or the zero time
// when the table is empty.
func (s *SQLReadingStore) LatestReadingTime() (time.Time, error) {
	var ts storedTime
	row := s.db.QueryRow(`SELECT MAX(ts) FROM glucose_readings`)
	if err := row.Scan(&ts); err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest reading time: %w", err)
	}
	return ts.Time, nil
}

// Close closes the underlying DB connection.
func (s *SQLReadingStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
