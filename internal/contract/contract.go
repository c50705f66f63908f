// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/mlevkov/glucodip/schema"
)

// StoreManager defines the interface for managing persistent data stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetReadingStore() ReadingStore
	GetFoodStore() FoodStore
	GetCrashStore() CrashStore
	GetAssessmentStore() AssessmentStore
	GetImportStore() ImportStore
	GetCacheStore() CacheStore

	// GetStatus returns aggregate status information across all stores.
	GetStatus() (schema.StoreStatus, error)
}

// ReadingStore defines the interface for glucose reading storage.
type ReadingStore interface {
	// PutReadings batch inserts readings, tagged with the import run that produced them.
	PutReadings(runID string, readings []schema.GlucoseReading) error

	// GetReadings returns readings with timestamps in [start, end], sorted ascending.
	GetReadings(start, end time.Time) ([]schema.GlucoseReading, error)

	// LatestReadingTime returns the newest stored timestamp, or the zero time when empty.
	LatestReadingTime() (time.Time, error)

	// Close closes the underlying connection
	Close() error
}

// FoodStore defines the interface for food log storage.
type FoodStore interface {
	// PutFoods batch inserts food entries, tagged with the import run that produced them.
	PutFoods(runID string, foods []schema.FoodEntry) error

	// GetFoods returns food entries with timestamps in [start, end], sorted ascending.
	GetFoods(start, end time.Time) ([]schema.FoodEntry, error)

	// Close closes the underlying connection
	Close() error
}

// CrashStore defines the interface for detected crash event storage.
type CrashStore interface {
	// PutCrashes batch inserts crash events, tagged with the import run that produced them.
	PutCrashes(runID string, crashes []schema.CrashEvent) error

	// GetCrashes returns crash events starting in [start, end], sorted ascending.
	GetCrashes(start, end time.Time) ([]schema.CrashEvent, error)

	// Close closes the underlying connection
	Close() error
}

// AssessmentStore defines the interface for AI meal assessment storage.
type AssessmentStore interface {
	// PutAssessment inserts or replaces the assessment for a meal key.
	PutAssessment(a schema.Assessment) error

	// GetAssessment returns the stored assessment for a meal key, or nil when absent.
	GetAssessment(mealKey string) (*schema.Assessment, error)

	// Close closes the underlying connection
	Close() error
}

// ImportStore defines the interface for tracking which export files were ingested.
type ImportStore interface {
	// IsImported reports whether a file with the given name and mtime was already ingested.
	IsImported(fileName string, mtimeMs int64) (bool, error)

	// RecordImport records a completed file ingestion.
	RecordImport(rec schema.ImportedFile) error

	// ListImports returns the most recent import records, newest first.
	ListImports(limit int) ([]schema.ImportedFile, error)

	// Close closes the underlying connection
	Close() error
}

// CacheStore defines the interface for analysis result caching.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Close() error
}
