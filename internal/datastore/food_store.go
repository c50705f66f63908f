package datastore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// foodsTable holds food-log rows. The primary key covers timestamp and food
// name because several foods are commonly logged at the same minute.
const foodsTable = "food_logs"

// SQLFoodStore implements the FoodStore interface.
type SQLFoodStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.FoodStore = &SQLFoodStore{} // Compile-time check

// createFoodsTableQuery returns the CREATE TABLE query for food_logs.
func createFoodsTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS food_logs (
				ts DATETIME(6) NOT NULL,
				day VARCHAR(10) NOT NULL,
				food_name VARCHAR(255) NOT NULL,
				meal_group VARCHAR(64) NOT NULL,
				calories DOUBLE NOT NULL,
				protein_g DOUBLE NOT NULL,
				carbs_g DOUBLE NOT NULL,
				fat_g DOUBLE NOT NULL,
				fiber_g DOUBLE NOT NULL,
				sugar_g DOUBLE NOT NULL,
				run_id VARCHAR(64) NOT NULL,
				PRIMARY KEY (ts, food_name)
			);
		`

	case schema.PostgreSQLBackend:
		return `
			CREATE TABLE IF NOT EXISTS food_logs (
				ts TIMESTAMPTZ NOT NULL,
				day TEXT NOT NULL,
				food_name TEXT NOT NULL,
				meal_group TEXT NOT NULL,
				calories DOUBLE PRECISION NOT NULL,
				protein_g DOUBLE PRECISION NOT NULL,
				carbs_g DOUBLE PRECISION NOT NULL,
				fat_g DOUBLE PRECISION NOT NULL,
				fiber_g DOUBLE PRECISION NOT NULL,
				sugar_g DOUBLE PRECISION NOT NULL,
				run_id TEXT NOT NULL,
				PRIMARY KEY (ts, food_name)
			);
		`

	default: // SQLite
		return `
			CREATE TABLE IF NOT EXISTS food_logs (
				ts TEXT NOT NULL,
				day TEXT NOT NULL,
				food_name TEXT NOT NULL,
				meal_group TEXT NOT NULL,
				calories REAL NOT NULL,
				protein_g REAL NOT NULL,
				carbs_g REAL NOT NULL,
				fat_g REAL NOT NULL,
				fiber_g REAL NOT NULL,
				sugar_g REAL NOT NULL,
				run_id TEXT NOT NULL,
				PRIMARY KEY (ts, food_name)
			);
		`
	}
}

// upsertFoodQuery returns the UPSERT query for the backend.
func upsertFoodQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `INSERT INTO food_logs (ts, day, food_name, meal_group, calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE day = new.day, meal_group = new.meal_group, calories = new.calories,
			protein_g = new.protein_g, carbs_g = new.carbs_g, fat_g = new.fat_g,
			fiber_g = new.fiber_g, sugar_g = new.sugar_g, run_id = new.run_id`

	case schema.PostgreSQLBackend:
		return `INSERT INTO food_logs (ts, day, food_name, meal_group, calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, run_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (ts, food_name) DO UPDATE SET day = EXCLUDED.day, meal_group = EXCLUDED.meal_group,
			calories = EXCLUDED.calories, protein_g = EXCLUDED.protein_g, carbs_g = EXCLUDED.carbs_g,
			fat_g = EXCLUDED.fat_g, fiber_g = EXCLUDED.fiber_g, sugar_g = EXCLUDED.sugar_g, run_id = EXCLUDED.run_id`

	default: // SQLite
		return `INSERT OR REPLACE INTO food_logs (ts, day, food_name, meal_group, calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}
}

// PutFoods batch upserts food entries inside one transaction.
func (s *SQLFoodStore) PutFoods(runID string, foods []schema.FoodEntry) error {
	if len(foods) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin foods transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertFoodQuery(s.backend))
	if err != nil {
		return fmt.Errorf("failed to prepare foods upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range foods {
		_, err := stmt.Exec(
			formatTime(f.Timestamp, s.backend), f.Day, f.FoodName, f.Group,
			f.Calories, f.ProteinG, f.CarbsG, f.FatG, f.FiberG, f.SugarG, runID)
		if err != nil {
			return fmt.Errorf("failed to store food %q at %s: %w", f.FoodName, f.Timestamp.Format(time.RFC3339), err)
		}
	}

	return tx.Commit()
}

// GetFoods returns food entries with timestamps in [start, end], sorted ascending.
func (s *SQLFoodStore) GetFoods(start, end time.Time) ([]schema.FoodEntry, error) {
	query := rebind(s.backend, `SELECT ts, day, food_name, meal_group, calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g
		FROM food_logs WHERE ts >= ? AND ts <= ? ORDER BY ts ASC, food_name ASC`)
	rows, err := s.db.Query(query, formatTime(start, s.backend), formatTime(end, s.backend))
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	foods := []schema.FoodEntry{}
	for rows.Next() {
		var ts storedTime
		var f schema.FoodEntry
		err := rows.Scan(&ts, &f.Day, &f.FoodName, &f.Group,
			&f.Calories, &f.ProteinG, &f.CarbsG, &f.FatG, &f.FiberG, &f.SugarG)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food entry: %w", err)
		}
		f.Timestamp = ts.Time
		foods = append(foods, f)
	}

	return foods, rows.Err()
}

// Close closes the underlying DB connection.
func (s *SQLFoodStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
