package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mlevkov/glucodip/core/ingest"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// loadedInputs holds the raw input tables for one analysis run plus a source
// identity string that the result cache folds into its key. The identity
// changes whenever the underlying export files or store contents change, so
// stale cache entries simply stop being addressed.
type loadedInputs struct {
	Readings []schema.GlucoseReading
	Foods    []schema.FoodEntry
	SourceID string
}

// loadInputs resolves the glucose and food inputs for one run. Explicit file
// flags win over directory discovery; without a data directory both tables
// come from the store. Both tables are filtered to the configured time range.
func loadInputs(cfg *contract.Config, mgr contract.StoreManager) (*loadedInputs, error) {
	var in *loadedInputs
	var err error

	if cfg.DataDir != "" || cfg.GlucoseFile != "" || cfg.FoodFile != "" {
		in, err = loadFileInputs(cfg)
	} else {
		in, err = loadStoreInputs(cfg, mgr)
	}
	if err != nil {
		return nil, err
	}

	in.Readings = filterReadings(in.Readings, cfg.StartTime, cfg.EndTime)
	in.Foods = filterFoods(in.Foods, cfg.StartTime, cfg.EndTime)

	if len(in.Readings) == 0 && len(in.Foods) == 0 {
		return nil, contract.ErrNoInputData
	}
	return in, nil
}

// loadFileInputs parses export files. A missing glucose or food export is not
// an error on its own; the caller decides what to do when both are missing.
func loadFileInputs(cfg *contract.Config) (*loadedInputs, error) {
	in := &loadedInputs{}

	glucosePath, err := resolveExportPath(cfg.GlucoseFile, cfg.DataDir, ingest.GlucosePattern)
	if err != nil {
		return nil, err
	}
	foodPath, err := resolveExportPath(cfg.FoodFile, cfg.DataDir, ingest.FoodPattern)
	if err != nil {
		return nil, err
	}

	if glucosePath != "" {
		in.Readings, err = ingest.ParseLibreFile(glucosePath)
		if err != nil {
			return nil, fmt.Errorf("glucose export %s: %w", glucosePath, err)
		}
	}
	if foodPath != "" {
		in.Foods, err = ingest.ParseCronometerFile(foodPath)
		if err != nil {
			return nil, fmt.Errorf("food export %s: %w", foodPath, err)
		}
	}

	in.SourceID = fileSourceID(glucosePath, foodPath)
	return in, nil
}

// loadStoreInputs reads both tables from the store for the configured range.
func loadStoreInputs(cfg *contract.Config, mgr contract.StoreManager) (*loadedInputs, error) {
	readingStore := mgr.GetReadingStore()
	foodStore := mgr.GetFoodStore()
	if readingStore == nil || foodStore == nil {
		return nil, fmt.Errorf("%w: pass a data directory or configure --store-backend", contract.ErrStoreDisabled)
	}

	readings, err := readingStore.GetReadings(cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("loading readings from store: %w", err)
	}
	foods, err := foodStore.GetFoods(cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("loading food entries from store: %w", err)
	}

	return &loadedInputs{
		Readings: readings,
		Foods:    foods,
		SourceID: fmt.Sprintf("store:%s", cfg.StoreBackend),
	}, nil
}

// resolveExportPath picks the input file: the explicit flag when set,
// otherwise the newest matching export in the data directory. No directory
// and no flag means no file, which is fine; discovery finding nothing in a
// provided directory is also fine since the other input may still exist.
func resolveExportPath(explicit, dataDir, pattern string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if dataDir == "" {
		return "", nil
	}
	path, err := ingest.FindLatestExport(dataDir, pattern)
	if errors.Is(err, contract.ErrNoExportFiles) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// fileSourceID fingerprints the input files by name, mtime and size so the
// result cache key changes when an export is replaced or appended to.
func fileSourceID(paths ...string) string {
	id := "file"
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			id = fmt.Sprintf("%s|%s:?", id, p)
			continue
		}
		id = fmt.Sprintf("%s|%s:%d:%d", id, p, info.ModTime().UnixMilli(), info.Size())
	}
	return id
}

// filterReadings keeps readings with timestamps in [start, end].
func filterReadings(readings []schema.GlucoseReading, start, end time.Time) []schema.GlucoseReading {
	filtered := make([]schema.GlucoseReading, 0, len(readings))
	for _, r := range readings {
		if inRange(r.Timestamp, start, end) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// filterFoods keeps food entries with timestamps in [start, end].
func filterFoods(foods []schema.FoodEntry, start, end time.Time) []schema.FoodEntry {
	filtered := make([]schema.FoodEntry, 0, len(foods))
	for _, f := range foods {
		if inRange(f.Timestamp, start, end) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
