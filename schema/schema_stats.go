package schema

import "time"

// CrashSummary reduces a set of crash events to display statistics.
// Every field is zero when the input set is empty; zero, not NaN, is the
// convention for "no data" so display code never special-cases it.
type CrashSummary struct {
	TotalCrashes       int     `json:"total_crashes"`
	AvgDropMagnitude   float64 `json:"avg_drop_magnitude"`
	MaxDropMagnitude   float64 `json:"max_drop_magnitude"`
	AvgDurationMinutes float64 `json:"avg_duration"`
	AvgVelocity        float64 `json:"avg_velocity"`
	WorstVelocity      float64 `json:"worst_velocity"` // single fastest drop across all events
}

// GlucoseOverview summarizes a glucose series for display and reporting.
// Time-in-range uses the standard 70-180 mg/dL band; GMI is the Glucose
// Management Indicator estimate of A1C from mean glucose.
type GlucoseOverview struct {
	TotalReadings          int       `json:"total_readings"`
	FirstReading           time.Time `json:"first_reading"`
	LastReading            time.Time `json:"last_reading"`
	AverageGlucose         float64   `json:"average_glucose"`
	StdDev                 float64   `json:"std_dev"`
	TimeInRangePct         float64   `json:"time_in_range_pct"`
	TimeBelowPct           float64   `json:"time_below_pct"`
	TimeAbovePct           float64   `json:"time_above_pct"`
	GMI                    float64   `json:"gmi"`
	CoefficientOfVariation float64   `json:"coefficient_of_variation"`
}

// FoodTrigger ranks a food by how often it was eaten in the window
// preceding a crash.
type FoodTrigger struct {
	FoodName    string  `json:"food_name"`
	CrashCount  int     `json:"crash_count"`
	AvgVelocity float64 `json:"avg_velocity"` // mean max velocity of the crashes it preceded
}

// StatsBundle pairs the glucose overview with the crash summary for the
// stats command and the doctor report.
type StatsBundle struct {
	Overview GlucoseOverview `json:"overview"`
	Crashes  CrashSummary    `json:"crashes"`
}
