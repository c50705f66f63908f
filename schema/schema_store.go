package schema

import "time"

// ImportedFile records one ingested source file so repeat imports of the
// same export can be skipped. Identity is (FileName, MtimeMs), matching how
// CGM vendors re-export under the same name with a new modification time.
type ImportedFile struct {
	FileName   string    `json:"file_name"`
	MtimeMs    int64     `json:"file_mtime_ms"`
	RunID      string    `json:"run_id"`
	ImportedAt time.Time `json:"imported_at"`
}

// Assessment is one cached AI narrative for a meal, keyed by the meal key
// so regeneration is explicit rather than accidental.
type Assessment struct {
	MealKey   string    `json:"meal_key"`
	Text      string    `json:"assessment"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// ImportSummary reports what one import run accomplished.
type ImportSummary struct {
	RunID          string `json:"run_id"`
	GlucoseFile    string `json:"glucose_file,omitempty"`
	FoodFile       string `json:"food_file,omitempty"`
	ReadingsStored int    `json:"readings_stored"`
	FoodsStored    int    `json:"foods_stored"`
	CrashesStored  int    `json:"crashes_stored"`
	SkippedFiles   int    `json:"skipped_files"`
}
