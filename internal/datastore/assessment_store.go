package datastore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// assessmentsTable caches AI-generated meal narratives so repeated runs do
// not burn API quota on meals that have not changed.
const assessmentsTable = "meal_assessments"

// SQLAssessmentStore implements the AssessmentStore interface.
type SQLAssessmentStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AssessmentStore = &SQLAssessmentStore{} // Compile-time check

// createAssessmentsTableQuery returns the CREATE TABLE query for meal_assessments.
func createAssessmentsTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS meal_assessments (
				meal_key VARCHAR(255) NOT NULL PRIMARY KEY,
				assessment TEXT NOT NULL,
				model VARCHAR(64) NOT NULL,
				created_at DATETIME(6) NOT NULL
			);
		`

	case schema.PostgreSQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS meal_assessments (
				meal_key TEXT NOT NULL PRIMARY KEY,
				assessment TEXT NOT NULL,
				model TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`

	default: // SQLite
		return `
			CREATE TABLE IF NOT EXISTS meal_assessments (
				meal_key TEXT NOT NULL PRIMARY KEY,
				assessment TEXT NOT NULL,
				model TEXT NOT NULL,
				created_at TEXT NOT NULL
			);
		`
	}
}

// upsertAssessmentQuery returns the UPSERT query for the backend.
func upsertAssessmentQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `INSERT INTO meal_assessments (meal_key, assessment, model, created_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE assessment = new.assessment, model = new.model, created_at = new.created_at`

	case schema.PostgreSQLBackend:
		return `INSERT INTO meal_assessments (meal_key, assessment, model, created_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (meal_key) DO UPDATE SET assessment = EXCLUDED.assessment, model = EXCLUDED.model, created_at = EXCLUDED.created_at`

	default: // SQLite
		return `INSERT OR REPLACE INTO meal_assessments (meal_key, assessment, model, created_at) VALUES (?, ?, ?, ?)`
	}
}

// PutAssessment inserts or replaces the assessment for a meal key.
func (s *SQLAssessmentStore) PutAssessment(a schema.Assessment) error {
	query := upsertAssessmentQuery(s.backend)
	_, err := s.db.Exec(query, a.MealKey, a.Text, a.Model, formatTime(a.CreatedAt, s.backend))
	if err != nil {
		return fmt.Errorf("failed to store assessment for %q: %w", a.MealKey, err)
	}
	return nil
}

// GetAssessment returns the stored assessment for a meal key, or nil when absent.
func (s *SQLAssessmentStore) GetAssessment(mealKey string) (*schema.Assessment, error) {
	query := rebind(s.backend, `SELECT meal_key, assessment, model, created_at FROM meal_assessments WHERE meal_key = ?`)
	row := s.db.QueryRow(query, mealKey)

	var createdAt storedTime
	var a schema.Assessment
	err := row.Scan(&a.MealKey, &a.Text, &a.Model, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment for %q: %w", mealKey, err)
	}
	a.CreatedAt = createdAt.Time
	return &a, nil
}

// Close closes the underlying DB connection.
func (s *SQLAssessmentStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
