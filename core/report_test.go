package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/datastore"
	"github.com/mlevkov/glucodip/schema"
)

// TestExecuteReport tests the clinician report entry point end to end.
func TestExecuteReport(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	cfg, mockMgr := executeScenario(t)

	require.NoError(t, ExecuteReport(ctx, cfg, mockMgr))

	var doc struct {
		PeriodStart time.Time        `json:"period_start"`
		PeriodEnd   time.Time        `json:"period_end"`
		Stats       map[string]any   `json:"stats"`
		TopTriggers []map[string]any `json:"top_triggers"`
		TopCrashes  []map[string]any `json:"top_crashes"`
		MealDigest  map[string]any   `json:"meal_digest"`
	}
	readJSONFile(t, cfg.OutputFile, &doc)

	assert.Equal(t, cfg.StartTime, doc.PeriodStart)
	assert.Equal(t, cfg.EndTime, doc.PeriodEnd)

	crashes, ok := doc.Stats["crashes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), crashes["total_crashes"])

	require.Len(t, doc.TopTriggers, 1)
	assert.Equal(t, "Rice", doc.TopTriggers[0]["food_name"])

	require.Len(t, doc.TopCrashes, 1)
	assert.Equal(t, 28.0, doc.TopCrashes[0]["drop_magnitude"])

	assert.Equal(t, float64(1), doc.MealDigest["total_meals"])

	mockMgr.AssertExpectations(t)
}

func TestBuildDoctorReport(t *testing.T) {
	cfg := fullDayConfig()
	noon := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	crash := func(start time.Time, drop float64) schema.CrashEvent {
		return schema.CrashEvent{
			StartTime:       start,
			EndTime:         start.Add(30 * time.Minute),
			DropMagnitude:   drop,
			DurationMinutes: 30,
			MaxVelocity:     -drop / 30,
		}
	}

	// 20 crashes, newest first on input to prove the report re-sorts them
	var crashes []schema.CrashEvent
	for i := 19; i >= 0; i-- {
		crashes = append(crashes, crash(noon.Add(time.Duration(i)*time.Hour), float64(20+i)))
	}

	bundle := &schema.AnalysisBundle{
		Readings: ComputeVelocity(readingsAt(noon, 100, 110, 105), 5, 2.0),
		Crashes:  crashes,
		Foods:    []schema.FoodEntry{foodAt(noon.Add(-time.Hour), "Toast", "Breakfast", 30)},
	}

	report := buildDoctorReport(cfg, bundle)

	assert.Equal(t, cfg.StartTime, report.PeriodStart)
	assert.Equal(t, cfg.EndTime, report.PeriodEnd)
	assert.WithinDuration(t, time.Now(), report.GeneratedAt, 5*time.Second)

	// The crash table caps at fifteen rows in chronological order
	require.Len(t, report.TopCrashes, 15)
	for i := 1; i < len(report.TopCrashes); i++ {
		assert.True(t, report.TopCrashes[i-1].StartTime.Before(report.TopCrashes[i].StartTime))
	}

	// Summary stats still cover all twenty events
	assert.Equal(t, 20, report.Stats.Crashes.TotalCrashes)
	assert.Equal(t, 3, report.Stats.Overview.TotalReadings)
}

// TestExecuteReportNoData tests that an empty run surfaces the sentinel.
func TestExecuteReportNoData(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := fullDayConfig()
	cfg.DataDir = t.TempDir()

	err := ExecuteReport(ctx, cfg, &datastore.MockStoreManager{})

	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrNoInputData)
}
