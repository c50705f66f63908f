package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/datastore"
	"github.com/mlevkov/glucodip/schema"
)

// crashImportFixture is a LibreView export whose series spikes to 140 and
// slides back to 88, producing exactly one detectable crash.
const crashImportFixture = `Glucose Data,Generated by LibreView,10-01-2024
Device,Serial Number,Device Timestamp,Record Type,Historic Glucose mg/dL
FreeStyle Libre 3,ABC123,2024-03-01 11:30,0,95
FreeStyle Libre 3,ABC123,2024-03-01 11:35,0,100
FreeStyle Libre 3,ABC123,2024-03-01 11:40,0,120
FreeStyle Libre 3,ABC123,2024-03-01 11:45,0,140
FreeStyle Libre 3,ABC123,2024-03-01 11:50,0,140
FreeStyle Libre 3,ABC123,2024-03-01 11:55,0,135
FreeStyle Libre 3,ABC123,2024-03-01 12:00,0,120
FreeStyle Libre 3,ABC123,2024-03-01 12:05,0,105
FreeStyle Libre 3,ABC123,2024-03-01 12:10,0,92
FreeStyle Libre 3,ABC123,2024-03-01 12:15,0,88
`

// importMocks bundles the four stores an import touches.
type importMocks struct {
	mgr      *datastore.MockStoreManager
	imports  *datastore.MockImportStore
	readings *datastore.MockReadingStore
	foods    *datastore.MockFoodStore
	crashes  *datastore.MockCrashStore
}

func newImportMocks() *importMocks {
	m := &importMocks{
		mgr:      &datastore.MockStoreManager{},
		imports:  &datastore.MockImportStore{},
		readings: &datastore.MockReadingStore{},
		foods:    &datastore.MockFoodStore{},
		crashes:  &datastore.MockCrashStore{},
	}
	m.mgr.On("GetImportStore").Return(m.imports)
	m.mgr.On("GetReadingStore").Return(m.readings)
	m.mgr.On("GetFoodStore").Return(m.foods)
	m.mgr.On("GetCrashStore").Return(m.crashes)
	return m
}

func importConfig(t *testing.T, dataDir string) *contract.Config {
	t.Helper()
	cfg := fullDayConfig()
	cfg.DataDir = dataDir
	cfg.SmoothingWindow = 5
	cfg.DangerThreshold = 2.0
	cfg.Precision = 1
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")
	return cfg
}

func TestExecuteImportFreshFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "patient_glucose_2024.csv", crashImportFixture)
	writeFixture(t, tmpDir, "dailysummary_servings.csv", foodExportFixture)
	cfg := importConfig(t, tmpDir)

	m := newImportMocks()
	m.imports.On("IsImported", "patient_glucose_2024.csv", mock.AnythingOfType("int64")).Return(false, nil)
	m.imports.On("IsImported", "dailysummary_servings.csv", mock.AnythingOfType("int64")).Return(false, nil)
	m.imports.On("RecordImport", mock.AnythingOfType("schema.ImportedFile")).Return(nil)
	m.readings.On("PutReadings", mock.AnythingOfType("string"), mock.MatchedBy(func(r []schema.GlucoseReading) bool {
		return len(r) == 10
	})).Return(nil)
	m.foods.On("PutFoods", mock.AnythingOfType("string"), mock.MatchedBy(func(f []schema.FoodEntry) bool {
		return len(f) == 2
	})).Return(nil)
	m.crashes.On("GetCrashes", mock.Anything, mock.Anything).Return([]schema.CrashEvent{}, nil)
	m.crashes.On("PutCrashes", mock.AnythingOfType("string"), mock.MatchedBy(func(c []schema.CrashEvent) bool {
		return len(c) == 1 && c[0].DropMagnitude == 28.0
	})).Return(nil)

	require.NoError(t, ExecuteImport(context.Background(), cfg, m.mgr))

	var summary schema.ImportSummary
	readJSONFile(t, cfg.OutputFile, &summary)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "patient_glucose_2024.csv", summary.GlucoseFile)
	assert.Equal(t, "dailysummary_servings.csv", summary.FoodFile)
	assert.Equal(t, 10, summary.ReadingsStored)
	assert.Equal(t, 2, summary.FoodsStored)
	assert.Equal(t, 1, summary.CrashesStored)
	assert.Zero(t, summary.SkippedFiles)

	m.imports.AssertExpectations(t)
	m.readings.AssertExpectations(t)
	m.foods.AssertExpectations(t)
	m.crashes.AssertExpectations(t)
}

func TestExecuteImportSkipsImportedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "patient_glucose_2024.csv", crashImportFixture)
	writeFixture(t, tmpDir, "dailysummary_servings.csv", foodExportFixture)
	cfg := importConfig(t, tmpDir)

	m := newImportMocks()
	m.imports.On("IsImported", mock.AnythingOfType("string"), mock.AnythingOfType("int64")).Return(true, nil)

	require.NoError(t, ExecuteImport(context.Background(), cfg, m.mgr))

	var summary schema.ImportSummary
	readJSONFile(t, cfg.OutputFile, &summary)

	assert.Equal(t, 2, summary.SkippedFiles)
	assert.Zero(t, summary.ReadingsStored)
	assert.Zero(t, summary.CrashesStored)
	assert.Empty(t, summary.GlucoseFile)

	m.readings.AssertNotCalled(t, "PutReadings", mock.Anything, mock.Anything)
	m.foods.AssertNotCalled(t, "PutFoods", mock.Anything, mock.Anything)
	m.imports.AssertNotCalled(t, "RecordImport", mock.Anything)
}

// --force re-ingests files without consulting the import history.
func TestExecuteImportForce(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "patient_glucose_2024.csv", crashImportFixture)
	cfg := importConfig(t, tmpDir)
	cfg.Force = true

	m := newImportMocks()
	m.imports.On("RecordImport", mock.AnythingOfType("schema.ImportedFile")).Return(nil)
	m.readings.On("PutReadings", mock.AnythingOfType("string"), mock.Anything).Return(nil)
	m.crashes.On("GetCrashes", mock.Anything, mock.Anything).Return([]schema.CrashEvent{}, nil)
	m.crashes.On("PutCrashes", mock.AnythingOfType("string"), mock.Anything).Return(nil)

	require.NoError(t, ExecuteImport(context.Background(), cfg, m.mgr))

	m.imports.AssertNotCalled(t, "IsImported", mock.Anything, mock.Anything)
	m.readings.AssertExpectations(t)
}

// A crash already present in the store is not counted or stored again.
func TestStoreNewCrashesDedupe(t *testing.T) {
	cfg := importConfig(t, "")
	readings := readingsAt(time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC),
		95, 100, 120, 140, 140, 135, 120, 105, 92, 88)

	m := newImportMocks()
	crashStart := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.crashes.On("GetCrashes", mock.Anything, mock.Anything).
		Return([]schema.CrashEvent{{StartTime: crashStart}}, nil)

	run := importRun{cfg: cfg, mgr: m.mgr, summary: schema.ImportSummary{RunID: "run-1"}}
	require.NoError(t, run.storeNewCrashes(readings))

	assert.Zero(t, run.summary.CrashesStored)
	m.crashes.AssertNotCalled(t, "PutCrashes", mock.Anything, mock.Anything)
}

func TestExecuteImportNoFiles(t *testing.T) {
	cfg := importConfig(t, t.TempDir())
	m := newImportMocks()

	err := ExecuteImport(context.Background(), cfg, m.mgr)

	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrNoExportFiles)
}

func TestExecuteImportStoreDisabled(t *testing.T) {
	cfg := importConfig(t, t.TempDir())

	mgr := &datastore.MockStoreManager{}
	mgr.On("GetImportStore").Return(nil)
	mgr.On("GetReadingStore").Return(nil)
	mgr.On("GetFoodStore").Return(nil)
	mgr.On("GetCrashStore").Return(nil)

	err := ExecuteImport(context.Background(), cfg, mgr)

	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrStoreDisabled))
}
