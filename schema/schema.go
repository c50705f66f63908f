// Package schema has models, enums and presentation helpers for all parts of glucodip.
package schema

import (
	"encoding/json"
	"math"
	"time"
)

// GlucoseReading is a single CGM sample as produced by the ingest layer.
// Timestamps are assumed unique per sensor; ordering is not guaranteed until
// the velocity pass sorts the series.
type GlucoseReading struct {
	Timestamp   time.Time `json:"timestamp"`
	GlucoseMgDl float64   `json:"glucose_mg_dl"`
}

// AugmentedReading is a GlucoseReading with derived rate-of-change fields.
// Velocity fields are nil where no value exists: the first sample of a series
// has no predecessor to diff against, and that absence is meaningful to
// downstream consumers (missing is not zero).
type AugmentedReading struct {
	GlucoseReading
	Velocity         *float64 `json:"velocity"`          // mg/dL per minute, nil on the first sample
	VelocitySmoothed *float64 `json:"velocity_smoothed"` // centered moving average of Velocity
	IsDangerZone     bool     `json:"is_danger_zone"`    // VelocitySmoothed <= -threshold
}

// WindowReading is an AugmentedReading attached to a meal's response window,
// carrying its offset from the meal time rounded to one decimal.
type WindowReading struct {
	AugmentedReading
	MinutesFromMeal float64 `json:"minutes_from_meal"`
}

// CrashEvent is a maximal contiguous run of two or more danger-zone samples.
// Events are immutable once computed and recomputed on demand, never updated
// incrementally.
type CrashEvent struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	StartGlucose    float64   `json:"start_glucose"`
	EndGlucose      float64   `json:"end_glucose"`
	DropMagnitude   float64   `json:"drop_magnitude"`   // StartGlucose - EndGlucose
	AverageVelocity float64   `json:"average_velocity"` // mean smoothed velocity over the run
	MaxVelocity     float64   `json:"max_velocity"`     // most negative smoothed velocity (fastest drop)
	DurationMinutes float64   `json:"duration_minutes"`
}

// FoodEntry is one food-log row as produced by the ingest layer. Macro fields
// arrive pre-defaulted to zero when the source omits them; Group defaults to
// "Uncategorized" and Day is derived from Timestamp when the source has no
// day column.
type FoodEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Day       string    `json:"day"` // YYYY-MM-DD
	FoodName  string    `json:"food_name"`
	Group     string    `json:"group"`
	Calories  float64   `json:"calories"`
	ProteinG  float64   `json:"protein_g"`
	CarbsG    float64   `json:"carbs_g"`
	FatG      float64   `json:"fat_g"`
	FiberG    float64   `json:"fiber_g"`
	SugarG    float64   `json:"sugar_g"`
}

// FoodAtTime pairs a food name with the time it was logged.
type FoodAtTime struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Meal aggregates the food entries logged under one (day, group) pair.
// MealTime is the earliest constituent timestamp; macro fields are plain sums
// and therefore always >= 0.
type Meal struct {
	Day            string       `json:"day"`
	Group          string       `json:"group"`
	MealTime       time.Time    `json:"meal_time"`
	Foods          []string     `json:"foods"`
	FoodsWithTimes []FoodAtTime `json:"foods_with_times"`
	FoodCount      int          `json:"food_count"`
	Calories       float64      `json:"calories"`
	ProteinG       float64      `json:"protein_g"`
	CarbsG         float64      `json:"carbs_g"`
	FatG           float64      `json:"fat_g"`
	FiberG         float64      `json:"fiber_g"`
	SugarG         float64      `json:"sugar_g"`
}

// MealGlucoseEvent is a Meal joined with its glucose response window.
// Aggregate glucose fields are nil when no readings matched the window.
// MinutesUntilComplete is nil when the glucose dataset is entirely empty,
// since no reference horizon exists to count down from.
type MealGlucoseEvent struct {
	Meal
	Readings             []WindowReading `json:"glucose_readings"`
	BaselineGlucose      *float64        `json:"baseline_glucose"`
	PeakGlucose          *float64        `json:"peak_glucose"`
	MinGlucose           *float64        `json:"min_glucose"`
	DataCoverageMinutes  float64         `json:"data_coverage_minutes"`
	DataComplete         bool            `json:"data_complete"`
	MinutesUntilComplete *float64        `json:"minutes_until_complete"`
}

// Ratio is a float64 that survives JSON round trips when infinite. A carb-free
// meal with protein yields an infinite protein/carb ratio, which encoding/json
// rejects as a bare number, so infinities are encoded as strings the way
// protobuf JSON does.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsInf(float64(r), 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(float64(r), -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(float64(r))
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Infinity"`:
		*r = Ratio(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*r = Ratio(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio(v)
	return nil
}

// MealResponseMetrics describes the shape of one meal's glucose response.
type MealResponseMetrics struct {
	BaselineGlucose     float64  `json:"baseline_glucose"`
	PeakGlucose         float64  `json:"peak_glucose"`
	GlucoseRise         float64  `json:"glucose_rise"`
	TimeToPeakMinutes   float64  `json:"time_to_peak_minutes"`
	MaxDropVelocity     float64  `json:"max_drop_velocity"` // most negative smoothed velocity in the window
	TotalDrop           float64  `json:"total_drop"`        // peak minus post-peak nadir
	DropDurationMinutes *float64 `json:"drop_duration_minutes"`
	CrashDetected       bool     `json:"crash_detected"`
	CrashStartMinutes   float64  `json:"crash_start_minutes"` // worst crash's offset from the window start
	CrashMagnitude      float64  `json:"crash_magnitude"`
	CrashVelocity       float64  `json:"crash_velocity"`
	ProteinCarbRatio    Ratio    `json:"protein_carb_ratio"`
}

// MealResult pairs a joined meal event with its computed response metrics.
// HasMetrics is false when the response window held no readings at all.
type MealResult struct {
	MealGlucoseEvent
	Metrics    MealResponseMetrics `json:"metrics"`
	HasMetrics bool                `json:"has_metrics"`
}
