package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// seedExportData fills all three data tables with one import run's worth of
// rows so the export has something to dump.
func seedExportData(t *testing.T, mgr *StoreManagerImpl) {
	t.Helper()
	base := storeBaseTime()

	require.NoError(t, mgr.GetReadingStore().PutReadings("run-1", []schema.GlucoseReading{
		{Timestamp: base, GlucoseMgDl: 100},
		{Timestamp: base.Add(5 * time.Minute), GlucoseMgDl: 92},
	}))
	require.NoError(t, mgr.GetFoodStore().PutFoods("run-1", []schema.FoodEntry{{
		Timestamp: base.Add(-time.Hour), Day: "2024-03-01", FoodName: "Rice", Group: "Lunch",
		Calories: 400, ProteinG: 8, CarbsG: 88, FatG: 2, FiberG: 2, SugarG: 0,
	}}))
	require.NoError(t, mgr.GetCrashStore().PutCrashes("run-1", []schema.CrashEvent{{
		StartTime: base, EndTime: base.Add(10 * time.Minute),
		StartGlucose: 120, EndGlucose: 90, DropMagnitude: 30,
		AverageVelocity: -2.5, MaxVelocity: -3, DurationMinutes: 10,
	}}))
}

func TestExecuteStoreExportCSV(t *testing.T) {
	mgr := newTestManager(t)
	seedExportData(t, mgr)

	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: filepath.Join(t.TempDir(), "export"),
	}
	require.NoError(t, ExecuteStoreExport(cfg, mgr))

	readFile := func(table string) []string {
		data, err := os.ReadFile(tablePath(cfg.OutputFile, table, schema.CSVOut))
		require.NoError(t, err)
		return strings.Split(strings.TrimSpace(string(data)), "\n")
	}

	readings := readFile(readingsTable)
	require.Len(t, readings, 3)
	assert.Equal(t, "timestamp,glucose_mg_dl", readings[0])
	assert.Contains(t, readings[1], ",100")

	foods := readFile(foodsTable)
	require.Len(t, foods, 2)
	assert.Contains(t, foods[0], "food_name")
	assert.Contains(t, foods[1], "Rice")
	assert.Contains(t, foods[1], ",88,")

	crashes := readFile(crashesTable)
	require.Len(t, crashes, 2)
	assert.Contains(t, crashes[0], "drop_magnitude")
	assert.Contains(t, crashes[1], ",30,")
}

func TestExecuteStoreExportJSON(t *testing.T) {
	mgr := newTestManager(t)
	seedExportData(t, mgr)

	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: filepath.Join(t.TempDir(), "export"),
	}
	require.NoError(t, ExecuteStoreExport(cfg, mgr))

	data, err := os.ReadFile(tablePath(cfg.OutputFile, readingsTable, schema.JSONOut))
	require.NoError(t, err)
	var readings []schema.GlucoseReading
	require.NoError(t, json.Unmarshal(data, &readings))
	require.Len(t, readings, 2)
	assert.Equal(t, 100.0, readings[0].GlucoseMgDl)

	data, err = os.ReadFile(tablePath(cfg.OutputFile, crashesTable, schema.JSONOut))
	require.NoError(t, err)
	var crashes []schema.CrashEvent
	require.NoError(t, json.Unmarshal(data, &crashes))
	require.Len(t, crashes, 1)
	assert.Equal(t, 30.0, crashes[0].DropMagnitude)
}

// Text output exports parquet, the archival default.
func TestExecuteStoreExportParquetDefault(t *testing.T) {
	mgr := newTestManager(t)
	seedExportData(t, mgr)

	cfg := &contract.Config{
		Output:     schema.TextOut,
		OutputFile: filepath.Join(t.TempDir(), "export"),
	}
	require.NoError(t, ExecuteStoreExport(cfg, mgr))

	for _, table := range []string{readingsTable, foodsTable, crashesTable} {
		info, err := os.Stat(cfg.OutputFile + "." + table + ".parquet")
		require.NoError(t, err, "Expected a parquet export for %s", table)
		assert.Positive(t, info.Size())
	}
}

func TestExecuteStoreExportRequiresOutputFile(t *testing.T) {
	mgr := newTestManager(t)

	err := ExecuteStoreExport(&contract.Config{Output: schema.TextOut}, mgr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")
}

func TestExecuteStoreExportEmptyStore(t *testing.T) {
	mgr := newTestManager(t)

	cfg := &contract.Config{
		Output:     schema.TextOut,
		OutputFile: filepath.Join(t.TempDir(), "export"),
	}
	err := ExecuteStoreExport(cfg, mgr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stored data found to export")
}
