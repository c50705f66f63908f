package schema

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// An infinite ratio must survive a marshal/unmarshal cycle, since cached
// analysis results round-trip through JSON.
func TestRatioRoundTrip(t *testing.T) {
	for name, value := range map[string]float64{
		"finite":            1.75,
		"zero":              0.0,
		"positive infinity": math.Inf(1),
		"negative infinity": math.Inf(-1),
	} {
		t.Run(name, func(t *testing.T) {
			raw, err := json.Marshal(Ratio(value))
			assert.NoError(t, err)

			var back Ratio
			assert.NoError(t, json.Unmarshal(raw, &back))
			assert.Equal(t, value, float64(back))
		})
	}

	assert.Error(t, json.Unmarshal([]byte(`"carbs"`), new(Ratio)),
		"Arbitrary strings should not decode as ratios")
}

func TestLatestReadingTime(t *testing.T) {
	empty := AnalysisBundle{}
	assert.True(t, empty.LatestReadingTime().IsZero(), "Empty bundle should report zero time")

	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	bundle := AnalysisBundle{
		Readings: []AugmentedReading{
			{GlucoseReading: GlucoseReading{Timestamp: t0, GlucoseMgDl: 95.0}},
			{GlucoseReading: GlucoseReading{Timestamp: t0.Add(5 * time.Minute), GlucoseMgDl: 98.0}},
		},
	}
	assert.Equal(t, t0.Add(5*time.Minute), bundle.LatestReadingTime(),
		"Latest reading time should be the last timestamp")
}

// Missing velocities must serialize as null, not zero. A reading with a real
// velocity of 0.0 is a flat trace; a reading with no velocity has no prior
// sample to difference against.
func TestMissingVelocitySerializesAsNull(t *testing.T) {
	first := AugmentedReading{
		GlucoseReading: GlucoseReading{
			Timestamp:   time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			GlucoseMgDl: 100.0,
		},
	}

	raw, err := json.Marshal(first)
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["velocity"], "First sample velocity should be null")
	assert.Nil(t, decoded["velocity_smoothed"], "First sample smoothed velocity should be null")
	assert.Equal(t, false, decoded["is_danger_zone"], "Missing velocity should never flag danger")

	flat := 0.0
	second := first
	second.Velocity = &flat
	second.VelocitySmoothed = &flat

	raw, err = json.Marshal(second)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 0.0, decoded["velocity"], "Zero velocity should survive as a number")
}

func TestMinutesUntilCompleteSerialization(t *testing.T) {
	noData := MealGlucoseEvent{Meal: Meal{Day: "2024-01-15", Group: "Dinner"}}

	raw, err := json.Marshal(noData)
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["minutes_until_complete"],
		"No glucose data at all means completion is unknowable, not zero minutes away")

	remaining := 42.0
	pending := noData
	pending.MinutesUntilComplete = &remaining

	raw, err = json.Marshal(pending)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 42.0, decoded["minutes_until_complete"])
}
