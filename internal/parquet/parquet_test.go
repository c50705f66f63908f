package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/glucodip/schema"
)

func TestCrashEventRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(CrashEventRow))
	require.NotNil(t, sch)

	// Check that all expected columns exist
	expectedColumns := []string{
		"start_time",
		"end_time",
		"start_glucose",
		"end_glucose",
		"drop_magnitude",
		"average_velocity",
		"max_velocity",
		"duration_minutes",
		"label",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestMealResultRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(MealResultRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"meal_time",
		"day",
		"group",
		"food_count",
		"foods",
		"calories",
		"protein_g",
		"carbs_g",
		"fat_g",
		"baseline_glucose",
		"peak_glucose",
		"glucose_rise",
		"time_to_peak_minutes",
		"max_drop_velocity",
		"total_drop",
		"protein_carb_ratio",
		"crash_detected",
		"data_complete",
		"label",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteCrashEvents(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "crashes.parquet")

	crashes := []schema.CrashEvent{
		{
			StartTime:       time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC),
			EndTime:         time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC),
			StartGlucose:    140,
			EndGlucose:      82,
			DropMagnitude:   58,
			AverageVelocity: -1.9,
			MaxVelocity:     -3.2,
			DurationMinutes: 30,
		},
		{
			StartTime:       time.Date(2024, 3, 2, 9, 15, 0, 0, time.UTC),
			EndTime:         time.Date(2024, 3, 2, 9, 40, 0, 0, time.UTC),
			StartGlucose:    120,
			EndGlucose:      80,
			DropMagnitude:   40,
			AverageVelocity: -1.6,
			MaxVelocity:     -2.1,
			DurationMinutes: 25,
		},
	}

	err := WriteCrashEvents(crashes, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[CrashEventRow](file)
	defer reader.Close()

	readData := make([]CrashEventRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(crashes), n, "Should read all records")

	assert.WithinDuration(t, crashes[0].StartTime, readData[0].StartTime, time.Nanosecond)
	assert.InDelta(t, 58.0, readData[0].DropMagnitude, 0.001)
	assert.Equal(t, "Severe", readData[0].Label)
	assert.Equal(t, "Moderate", readData[1].Label)
}

func TestWriteMealResultsNullableMetrics(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "meals.parquet")

	meals := []schema.MealResult{
		{
			MealGlucoseEvent: schema.MealGlucoseEvent{
				Meal: schema.Meal{
					Day:       "2024-03-01",
					Group:     "Lunch",
					MealTime:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
					Foods:     []string{"Rice", "Chicken"},
					FoodCount: 2,
					Calories:  650,
					ProteinG:  42,
					CarbsG:    70,
					FatG:      18,
				},
				DataComplete: true,
			},
			Metrics: schema.MealResponseMetrics{
				BaselineGlucose:   95,
				PeakGlucose:       160,
				GlucoseRise:       65,
				TimeToPeakMinutes: 45,
				MaxDropVelocity:   -2.6,
				TotalDrop:         72,
				CrashDetected:     true,
				ProteinCarbRatio:  schema.Ratio(0.6),
			},
			HasMetrics: true,
		},
		{
			MealGlucoseEvent: schema.MealGlucoseEvent{
				Meal: schema.Meal{
					Day:       "2024-03-02",
					Group:     "Dinner",
					MealTime:  time.Date(2024, 3, 2, 19, 0, 0, 0, time.UTC),
					Foods:     []string{"Salmon"},
					FoodCount: 1,
				},
				DataComplete: false,
			},
			HasMetrics: false,
		},
	}

	err := WriteMealResults(meals, outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[MealResultRow](file)
	defer reader.Close()

	readData := make([]MealResultRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(meals), n)

	// First meal has all metric columns populated
	require.NotNil(t, readData[0].BaselineGlucose)
	assert.InDelta(t, 95.0, *readData[0].BaselineGlucose, 0.001)
	require.NotNil(t, readData[0].GlucoseRise)
	assert.InDelta(t, 65.0, *readData[0].GlucoseRise, 0.001)
	assert.True(t, readData[0].CrashDetected)
	assert.Equal(t, "Crash", readData[0].Label)
	assert.Equal(t, "Rice, Chicken", readData[0].Foods)

	// Second meal had no readings, so metric columns are null
	assert.Nil(t, readData[1].BaselineGlucose)
	assert.Nil(t, readData[1].GlucoseRise)
	assert.Nil(t, readData[1].ProteinCarbRatio)
	assert.False(t, readData[1].CrashDetected)
	assert.Equal(t, "Awaiting Data", readData[1].Label)
}

func TestWriteGlucoseReadings(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "readings.parquet")

	readings := []schema.GlucoseReading{
		{Timestamp: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), GlucoseMgDl: 98},
		{Timestamp: time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC), GlucoseMgDl: 102},
	}

	err := WriteGlucoseReadings(readings, outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[GlucoseReadingRow](file)
	defer reader.Close()

	readData := make([]GlucoseReadingRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, 2, n)
	assert.InDelta(t, 98.0, readData[0].GlucoseMgDl, 0.001)
	assert.WithinDuration(t, readings[1].Timestamp, readData[1].Timestamp, time.Nanosecond)
}

func TestWriteCrashEventsEmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_crashes.parquet")

	err := WriteCrashEvents([]schema.CrashEvent{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteCrashEventsInvalidPath(t *testing.T) {
	err := WriteCrashEvents(nil, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertFoodEntries(t *testing.T) {
	foods := []schema.FoodEntry{
		{
			Timestamp: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
			Day:       "2024-03-01",
			FoodName:  "Oatmeal",
			Group:     "Breakfast",
			Calories:  300,
			ProteinG:  10,
			CarbsG:    54,
			FatG:      5,
			FiberG:    8,
			SugarG:    1,
		},
	}

	rows := ConvertFoodEntries(foods)
	require.Len(t, rows, 1)
	assert.Equal(t, "Oatmeal", rows[0].FoodName)
	assert.Equal(t, "Breakfast", rows[0].Group)
	assert.InDelta(t, 54.0, rows[0].CarbsG, 0.001)
	assert.InDelta(t, 8.0, rows[0].FiberG, 0.001)
}
