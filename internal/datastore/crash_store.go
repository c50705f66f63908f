package datastore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// crashesTable holds crash events detected at import time. Ad hoc analysis
// runs recompute crashes from readings instead of reading this table, so the
// rows here reflect the thresholds that were active when the import ran.
const crashesTable = "crash_events"

// SQLCrashStore implements the CrashStore interface.
type SQLCrashStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.CrashStore = &SQLCrashStore{} // Compile-time check

// createCrashesTableQuery returns the CREATE TABLE query for crash_events.
func createCrashesTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS crash_events (
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6) NOT NULL,
				start_glucose DOUBLE NOT NULL,
				end_glucose DOUBLE NOT NULL,
				drop_magnitude DOUBLE NOT NULL,
				average_velocity DOUBLE NOT NULL,
				max_velocity DOUBLE NOT NULL,
				duration_minutes DOUBLE NOT NULL,
				run_id VARCHAR(64) NOT NULL,
				PRIMARY KEY (start_time, end_time)
			);
		`

	case schema.PostgreSQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS crash_events (
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ NOT NULL,
				start_glucose DOUBLE PRECISION NOT NULL,
				end_glucose DOUBLE PRECISION NOT NULL,
				drop_magnitude DOUBLE PRECISION NOT NULL,
				average_velocity DOUBLE PRECISION NOT NULL,
				max_velocity DOUBLE PRECISION NOT NULL,
				duration_minutes DOUBLE PRECISION NOT NULL,
				run_id TEXT NOT NULL,
				PRIMARY KEY (start_time, end_time)
			);
		`

	default: // SQLite
		return `
			CREATE TABLE IF NOT EXISTS crash_events (
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				start_glucose REAL NOT NULL,
				end_glucose REAL NOT NULL,
				drop_magnitude REAL NOT NULL,
				average_velocity REAL NOT NULL,
				max_velocity REAL NOT NULL,
				duration_minutes REAL NOT NULL,
				run_id TEXT NOT NULL,
				PRIMARY KEY (start_time, end_time)
			);
		`
	}
}

// upsertCrashQuery returns the UPSERT query for the backend.
func upsertCrashQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `INSERT INTO crash_events (start_time, end_time, start_glucose, end_glucose, drop_magnitude, average_velocity, max_velocity, duration_minutes, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE start_glucose = new.start_glucose, end_glucose = new.end_glucose,
			drop_magnitude = new.drop_magnitude, average_velocity = new.average_velocity,
			max_velocity = new.max_velocity, duration_minutes = new.duration_minutes, run_id = new.run_id`

	case schema.PostgreSQLBackend:
		return `INSERT INTO crash_events (start_time, end_time, start_glucose, end_glucose, drop_magnitude, average_velocity, max_velocity, duration_minutes, run_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (start_time, end_time) DO UPDATE SET start_glucose = EXCLUDED.start_glucose,
			end_glucose = EXCLUDED.end_glucose, drop_magnitude = EXCLUDED.drop_magnitude,
			average_velocity = EXCLUDED.average_velocity, max_velocity = EXCLUDED.max_velocity,
			duration_minutes = EXCLUDED.duration_minutes, run_id = EXCLUDED.run_id`

	default: // SQLite
		return `INSERT OR REPLACE INTO crash_events (start_time, end_time, start_glucose, end_glucose, drop_magnitude, average_velocity, max_velocity, duration_minutes, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}
}

// PutCrashes batch upserts crash events inside one transaction.
func (s *SQLCrashStore) PutCrashes(runID string, crashes []schema.CrashEvent) error {
	if len(crashes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin crashes transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertCrashQuery(s.backend))
	if err != nil {
		return fmt.Errorf("failed to prepare crashes upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range crashes {
		_, err := stmt.Exec(
			formatTime(c.StartTime, s.backend), formatTime(c.EndTime, s.backend),
			c.StartGlucose, c.EndGlucose, c.DropMagnitude,
			c.AverageVelocity, c.MaxVelocity, c.DurationMinutes, runID)
		if err != nil {
			return fmt.Errorf("failed to store crash at %s: %w", c.StartTime.Format(time.RFC3339), err)
		}
	}

	return tx.Commit()
}

// GetCrashes returns crash events that start in [start, end], sorted ascending.
func (s *SQLCrashStore) GetCrashes(start, end time.Time) ([]schema.CrashEvent, error) {
	query := rebind(s.backend, `SELECT start_time, end_time, start_glucose, end_glucose, drop_magnitude, average_velocity, max_velocity, duration_minutes
		FROM crash_events WHERE start_time >= ? AND start_time <= ? ORDER BY start_time ASC`)
	rows, err := s.db.Query(query, formatTime(start, s.backend), formatTime(end, s.backend))
	if err != nil {
		return nil, fmt.Errorf("failed to query crashes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	crashes := []schema.CrashEvent{}
	for rows.Next() {
		var startTS, endTS storedTime
		var c schema.CrashEvent
		err := rows.Scan(&startTS, &endTS, &c.StartGlucose, &c.EndGlucose,
			&c.DropMagnitude, &c.AverageVelocity, &c.MaxVelocity, &c.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crash event: %w", err)
		}
		c.StartTime = startTS.Time
		c.EndTime = endTS.Time
		crashes = append(crashes, c)
	}

	return crashes, rows.Err()
}

// Close closes the underlying DB connection.
func (s *SQLCrashStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
