package core

import (
	"testing"
	"time"

	"github.com/mlevkov/glucodip/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dangerRun builds an augmented series from (smoothed velocity, danger) pairs
// spaced five minutes apart. Glucose descends by 10 per sample so drop
// magnitudes are predictable.
func dangerRun(start time.Time, flags []bool, velocities []float64) []schema.AugmentedReading {
	readings := make([]schema.AugmentedReading, len(flags))
	for i := range flags {
		readings[i] = schema.AugmentedReading{
			GlucoseReading: schema.GlucoseReading{
				Timestamp:   start.Add(time.Duration(i) * 5 * time.Minute),
				GlucoseMgDl: 150 - float64(i)*10,
			},
			IsDangerZone: flags[i],
		}
		v := velocities[i]
		readings[i].VelocitySmoothed = &v
	}
	return readings
}

// TestSegmentCrashesFromSeries drives crash segmentation off the real
// velocity pass for a textbook reactive drop.
func TestSegmentCrashesFromSeries(t *testing.T) {
	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	augmented := ComputeVelocity(readingsAt(t0, 100, 95, 70, 50, 48), 15, 2.0)

	crashes := SegmentCrashes(augmented)
	require.Len(t, crashes, 1)

	crash := crashes[0]
	assert.Equal(t, t0.Add(5*time.Minute), crash.StartTime)
	assert.Equal(t, t0.Add(20*time.Minute), crash.EndTime)
	assert.Equal(t, 95.0, crash.StartGlucose)
	assert.Equal(t, 48.0, crash.EndGlucose)
	assert.InDelta(t, 47.0, crash.DropMagnitude, 1e-9)
	assert.InDelta(t, -10.0/3, crash.MaxVelocity, 1e-9, "Fastest drop is the most negative smoothed velocity")
	assert.InDelta(t, (-3.0-10.0/3-9.4/3-2.2)/4, crash.AverageVelocity, 1e-9)
	assert.InDelta(t, 15.0, crash.DurationMinutes, 1e-9)
}

func TestSegmentCrashesRuns(t *testing.T) {
	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	t.Run("no danger samples", func(t *testing.T) {
		readings := dangerRun(t0,
			[]bool{false, false, false},
			[]float64{-0.5, -0.5, -0.5})
		crashes := SegmentCrashes(readings)
		assert.NotNil(t, crashes)
		assert.Empty(t, crashes)
	})

	t.Run("single sample run is discarded", func(t *testing.T) {
		readings := dangerRun(t0,
			[]bool{false, true, false, false},
			[]float64{-0.5, -2.5, -0.5, -0.5})
		assert.Empty(t, SegmentCrashes(readings), "One flagged sample is jitter, not a crash")
	})

	t.Run("two separate runs", func(t *testing.T) {
		readings := dangerRun(t0,
			[]bool{true, true, false, true, true, true, false},
			[]float64{-2.1, -2.3, -0.5, -2.2, -2.8, -2.4, -0.1})
		crashes := SegmentCrashes(readings)
		require.Len(t, crashes, 2)

		assert.Equal(t, t0, crashes[0].StartTime)
		assert.Equal(t, t0.Add(5*time.Minute), crashes[0].EndTime)
		assert.InDelta(t, 10.0, crashes[0].DropMagnitude, 1e-9)

		assert.Equal(t, t0.Add(15*time.Minute), crashes[1].StartTime)
		assert.Equal(t, t0.Add(25*time.Minute), crashes[1].EndTime)
		assert.InDelta(t, 20.0, crashes[1].DropMagnitude, 1e-9)
		assert.InDelta(t, -2.8, crashes[1].MaxVelocity, 1e-9)
		assert.InDelta(t, (-2.2-2.8-2.4)/3, crashes[1].AverageVelocity, 1e-9)
	})

	t.Run("run still open at end of data", func(t *testing.T) {
		readings := dangerRun(t0,
			[]bool{false, true, true},
			[]float64{-0.5, -2.5, -2.6})
		crashes := SegmentCrashes(readings)
		require.Len(t, crashes, 1, "The series ending mid-crash still counts")
		assert.Equal(t, t0.Add(10*time.Minute), crashes[0].EndTime)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SegmentCrashes(nil))
	})
}
