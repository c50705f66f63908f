package core

import (
	"math"
	"testing"
	"time"

	"github.com/mlevkov/glucodip/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// responseEvent runs the real velocity and join passes for one meal over a
// five-minute series starting at the meal time.
func responseEvent(t *testing.T, meal schema.Meal, values ...float64) schema.MealGlucoseEvent {
	t.Helper()
	readings := ComputeVelocity(readingsAt(meal.MealTime, values...), 15, 2.0)
	events := JoinMealsWithGlucose([]schema.Meal{meal}, readings, 15, 180)
	require.Len(t, events, 1)
	return events[0]
}

// TestAnalyzeMealResponseSpikeAndCrash covers the classic reactive pattern:
// a sharp rise to a peak followed by a crash into the danger zone.
func TestAnalyzeMealResponseSpikeAndCrash(t *testing.T) {
	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	meal := mealAt(noon, "Lunch")
	meal.ProteinG, meal.CarbsG = 20, 40

	event := responseEvent(t, meal,
		100, 120, 140, 160, 145, 125, 105, 95, 90, 92)

	metrics, ok := AnalyzeMealResponse(&event)
	require.True(t, ok)

	assert.InDelta(t, 100.0, metrics.BaselineGlucose, 1e-9)
	assert.InDelta(t, 160.0, metrics.PeakGlucose, 1e-9)
	assert.InDelta(t, 60.0, metrics.GlucoseRise, 1e-9)
	assert.InDelta(t, 15.0, metrics.TimeToPeakMinutes, 1e-9)
	assert.InDelta(t, -11.0/3, metrics.MaxDropVelocity, 1e-9)

	assert.InDelta(t, 70.0, metrics.TotalDrop, 1e-9, "Drop runs from the peak to the post-peak nadir")
	require.NotNil(t, metrics.DropDurationMinutes)
	assert.InDelta(t, 25.0, *metrics.DropDurationMinutes, 1e-9)

	require.True(t, metrics.CrashDetected)
	assert.InDelta(t, 25.0, metrics.CrashStartMinutes, 1e-9,
		"Crash offset is measured from the window's first sample")
	assert.InDelta(t, 30.0, metrics.CrashMagnitude, 1e-9)
	assert.InDelta(t, -11.0/3, metrics.CrashVelocity, 1e-9)

	assert.InDelta(t, 0.5, float64(metrics.ProteinCarbRatio), 1e-9)
}

func TestAnalyzeMealResponseMonotonicRise(t *testing.T) {
	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	event := responseEvent(t, mealAt(noon, "Breakfast"), 100, 110, 120, 130)

	metrics, ok := AnalyzeMealResponse(&event)
	require.True(t, ok)

	assert.InDelta(t, 130.0, metrics.PeakGlucose, 1e-9)
	assert.InDelta(t, 15.0, metrics.TimeToPeakMinutes, 1e-9)
	assert.InDelta(t, 0.0, metrics.TotalDrop, 1e-9)
	assert.Nil(t, metrics.DropDurationMinutes,
		"A peak at the end of the window leaves nothing to characterize")
	assert.False(t, metrics.CrashDetected)
	assert.InDelta(t, 2.0, metrics.MaxDropVelocity, 1e-9,
		"With no drop anywhere the minimum smoothed velocity is still reported")
}

func TestAnalyzeMealResponsePeakPlateau(t *testing.T) {
	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	event := responseEvent(t, mealAt(noon, "Snack"), 100, 150, 150, 120)

	metrics, ok := AnalyzeMealResponse(&event)
	require.True(t, ok)
	assert.InDelta(t, 5.0, metrics.TimeToPeakMinutes, 1e-9,
		"The first occurrence of the maximum is the peak")
	assert.InDelta(t, 30.0, metrics.TotalDrop, 1e-9)
}

func TestAnalyzeMealResponseEmptyWindow(t *testing.T) {
	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	events := JoinMealsWithGlucose([]schema.Meal{mealAt(noon, "Dinner")}, nil, 15, 180)
	require.Len(t, events, 1)

	_, ok := AnalyzeMealResponse(&events[0])
	assert.False(t, ok, "No readings at all means no metrics")
}

func TestAnalyzeMealResponseVelocityReuse(t *testing.T) {
	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	full := ComputeVelocity([]schema.GlucoseReading{
		{Timestamp: noon.Add(-5 * time.Minute), GlucoseMgDl: 90},
		{Timestamp: noon, GlucoseMgDl: 100},
		{Timestamp: noon.Add(5 * time.Minute), GlucoseMgDl: 110},
	}, 15, 2.0)

	// Zero tolerance slices the pre-meal sample out of the window, but the
	// window's first reading keeps the velocity it got from that sample.
	events := JoinMealsWithGlucose([]schema.Meal{mealAt(noon, "Lunch")}, full, 0, 180)
	require.Len(t, events, 1)
	require.Len(t, events[0].Readings, 2)

	first := events[0].Readings[0]
	require.NotNil(t, first.Velocity, "Series-level velocity must be carried into the window")
	assert.InDelta(t, 2.0, *first.Velocity, 1e-9)
}

func TestProteinCarbRatio(t *testing.T) {
	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	for name, tc := range map[string]struct {
		protein, carbs float64
		want           float64
	}{
		"typical":       {protein: 30, carbs: 60, want: 0.5},
		"protein only":  {protein: 25, carbs: 0, want: math.Inf(1)},
		"neither":       {protein: 0, carbs: 0, want: 0},
		"carbs only":    {protein: 0, carbs: 40, want: 0},
		"protein heavy": {protein: 80, carbs: 10, want: 8},
	} {
		t.Run(name, func(t *testing.T) {
			meal := mealAt(noon, "Lunch")
			meal.ProteinG, meal.CarbsG = tc.protein, tc.carbs
			event := responseEvent(t, meal, 100, 105)

			metrics, ok := AnalyzeMealResponse(&event)
			require.True(t, ok)
			if math.IsInf(tc.want, 1) {
				assert.True(t, math.IsInf(float64(metrics.ProteinCarbRatio), 1))
			} else {
				assert.InDelta(t, tc.want, float64(metrics.ProteinCarbRatio), 1e-9)
			}
		})
	}
}
