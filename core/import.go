package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/mlevkov/glucodip/core/ingest"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/outwriter"
	"github.com/mlevkov/glucodip/schema"
)

// ExecuteImport ingests the resolved export files into the store, detects
// crashes in the freshly parsed readings and records each file so the next
// run can skip it. It serves as the main entry point for the 'import' command.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	summary, err := runImport(cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	if cfg.Notify && summary.CrashesStored > 0 {
		notifyNewCrashes(summary.CrashesStored)
	}

	return outwriter.PrintImportResults(summary, cfg, duration)
}

// importRun carries the config, stores and run identity through one import.
// Every row written in the run is tagged with the same RunID.
type importRun struct {
	cfg     *contract.Config
	mgr     contract.StoreManager
	summary schema.ImportSummary
}

// runImport resolves the export files and ingests whichever ones the store
// has not seen yet.
func runImport(cfg *contract.Config, mgr contract.StoreManager) (schema.ImportSummary, error) {
	run := importRun{cfg: cfg, mgr: mgr}

	if mgr.GetImportStore() == nil || mgr.GetReadingStore() == nil ||
		mgr.GetFoodStore() == nil || mgr.GetCrashStore() == nil {
		return run.summary, fmt.Errorf("%w: import needs a persistent store, configure --store-backend", contract.ErrStoreDisabled)
	}

	glucosePath, err := resolveExportPath(cfg.GlucoseFile, cfg.DataDir, ingest.GlucosePattern)
	if err != nil {
		return run.summary, err
	}
	foodPath, err := resolveExportPath(cfg.FoodFile, cfg.DataDir, ingest.FoodPattern)
	if err != nil {
		return run.summary, err
	}
	if glucosePath == "" && foodPath == "" {
		return run.summary, fmt.Errorf("%w: pass a data directory or explicit export files", contract.ErrNoExportFiles)
	}

	run.summary.RunID = uuid.NewString()

	if glucosePath != "" {
		readings, err := run.ingestGlucose(glucosePath)
		if err != nil {
			return run.summary, err
		}
		if err := run.storeNewCrashes(readings); err != nil {
			return run.summary, err
		}
	}
	if foodPath != "" {
		if err := run.ingestFood(foodPath); err != nil {
			return run.summary, err
		}
	}

	return run.summary, nil
}

// ingestGlucose parses and stores one glucose export, returning the parsed
// readings for crash detection. A file the store already holds is skipped
// unless --force re-imports it.
func (r *importRun) ingestGlucose(path string) ([]schema.GlucoseReading, error) {
	name, mtime, skip, err := r.checkImported(path)
	if err != nil || skip {
		return nil, err
	}

	readings, err := ingest.ParseLibreFile(path)
	if err != nil {
		return nil, fmt.Errorf("glucose export %s: %w", path, err)
	}
	if err := r.mgr.GetReadingStore().PutReadings(r.summary.RunID, readings); err != nil {
		return nil, fmt.Errorf("storing readings: %w", err)
	}
	if err := r.recordImport(name, mtime); err != nil {
		return nil, err
	}

	r.summary.GlucoseFile = name
	r.summary.ReadingsStored = len(readings)
	return readings, nil
}

// ingestFood parses and stores one food log export, with the same dedupe
// rules as the glucose path.
func (r *importRun) ingestFood(path string) error {
	name, mtime, skip, err := r.checkImported(path)
	if err != nil || skip {
		return err
	}

	foods, err := ingest.ParseCronometerFile(path)
	if err != nil {
		return fmt.Errorf("food export %s: %w", path, err)
	}
	if err := r.mgr.GetFoodStore().PutFoods(r.summary.RunID, foods); err != nil {
		return fmt.Errorf("storing food entries: %w", err)
	}
	if err := r.recordImport(name, mtime); err != nil {
		return err
	}

	r.summary.FoodFile = name
	r.summary.FoodsStored = len(foods)
	return nil
}

// storeNewCrashes runs crash detection over the freshly parsed readings and
// stores the events not already present, so the summary counts genuinely new
// crashes even when overlapping exports re-cover the same days.
func (r *importRun) storeNewCrashes(readings []schema.GlucoseReading) error {
	if len(readings) == 0 {
		return nil
	}

	augmented := ComputeVelocity(readings, r.cfg.SmoothingWindow, r.cfg.DangerThreshold)
	crashes := SegmentCrashes(augmented)
	if len(crashes) == 0 {
		return nil
	}

	existing, err := r.mgr.GetCrashStore().GetCrashes(crashes[0].StartTime, crashes[len(crashes)-1].StartTime)
	if err != nil {
		return fmt.Errorf("loading stored crashes: %w", err)
	}
	known := make(map[int64]bool, len(existing))
	for _, c := range existing {
		known[c.StartTime.Unix()] = true
	}

	fresh := make([]schema.CrashEvent, 0, len(crashes))
	for _, c := range crashes {
		if !known[c.StartTime.Unix()] {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := r.mgr.GetCrashStore().PutCrashes(r.summary.RunID, fresh); err != nil {
		return fmt.Errorf("storing crashes: %w", err)
	}
	r.summary.CrashesStored = len(fresh)
	return nil
}

// checkImported stats the file and consults the import history. The skip
// result is true when the exact (name, mtime) pair was ingested before and
// --force is not set.
func (r *importRun) checkImported(path string) (name string, mtime int64, skip bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, false, fmt.Errorf("stat export file: %w", err)
	}
	name = filepath.Base(path)
	mtime = info.ModTime().UnixMilli()

	if r.cfg.Force {
		return name, mtime, false, nil
	}
	imported, err := r.mgr.GetImportStore().IsImported(name, mtime)
	if err != nil {
		return "", 0, false, fmt.Errorf("checking import history: %w", err)
	}
	if imported {
		r.summary.SkippedFiles++
	}
	return name, mtime, imported, nil
}

func (r *importRun) recordImport(name string, mtime int64) error {
	rec := schema.ImportedFile{
		FileName:   name,
		MtimeMs:    mtime,
		RunID:      r.summary.RunID,
		ImportedAt: time.Now(),
	}
	if err := r.mgr.GetImportStore().RecordImport(rec); err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

// notifyNewCrashes raises a desktop notification. Notification failure never
// fails the import; headless machines simply log a warning.
func notifyNewCrashes(count int) {
	msg := fmt.Sprintf("Detected %d new glucose crash event(s) in the imported data", count)
	if err := beeep.Notify("Glucodip import", msg, ""); err != nil {
		contract.LogWarn("desktop notification", err)
	}
}
