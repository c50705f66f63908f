// Package parquet provides row structures and writers for exporting
// glucodip data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/mlevkov/glucodip/schema"
)

// GlucoseReadingRow represents a single CGM sample.
// This struct maps to the glucose_readings database table.
type GlucoseReadingRow struct {
	// Timestamp is when the sensor recorded the sample (stored as TIMESTAMP with nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// GlucoseMgDl is the glucose value in mg/dL
	GlucoseMgDl float64 `parquet:"glucose_mg_dl,snappy"`
}

// FoodEntryRow represents a single food-log row.
// This struct maps to the food_logs database table.
type FoodEntryRow struct {
	// Timestamp is when the food was logged
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Day is the log's calendar day in YYYY-MM-DD form
	Day string `parquet:"day,snappy"`

	// FoodName is the logged food's name
	FoodName string `parquet:"food_name,snappy"`

	// Group is the meal group the entry was logged under
	Group string `parquet:"group,snappy"`

	// Calories is the entry's energy in kcal
	Calories float64 `parquet:"calories,snappy"`

	// ProteinG is the protein content in grams
	ProteinG float64 `parquet:"protein_g,snappy"`

	// CarbsG is the net carbohydrate content in grams
	CarbsG float64 `parquet:"carbs_g,snappy"`

	// FatG is the fat content in grams
	FatG float64 `parquet:"fat_g,snappy"`

	// FiberG is the fiber content in grams
	FiberG float64 `parquet:"fiber_g,snappy"`

	// SugarG is the sugar content in grams
	SugarG float64 `parquet:"sugar_g,snappy"`
}

// CrashEventRow represents one detected glucose crash.
// This struct maps to the crash_events database table.
type CrashEventRow struct {
	// StartTime is the first danger-zone sample of the crash
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is the last danger-zone sample of the crash
	EndTime time.Time `parquet:"end_time,snappy"`

	// StartGlucose is the glucose reading at the start of the crash
	StartGlucose float64 `parquet:"start_glucose,snappy"`

	// EndGlucose is the glucose reading at the end of the crash
	EndGlucose float64 `parquet:"end_glucose,snappy"`

	// DropMagnitude is the total mg/dL lost across the crash
	DropMagnitude float64 `parquet:"drop_magnitude,snappy"`

	// AverageVelocity is the mean smoothed velocity over the crash
	AverageVelocity float64 `parquet:"average_velocity,snappy"`

	// MaxVelocity is the most negative smoothed velocity in the crash
	MaxVelocity float64 `parquet:"max_velocity,snappy"`

	// DurationMinutes is the crash length in minutes
	DurationMinutes float64 `parquet:"duration_minutes,snappy"`

	// Label is the severity label derived from MaxVelocity
	Label string `parquet:"label,snappy"`
}

// MealResultRow represents one meal joined with its glucose response.
// Metric fields are nullable because a meal whose response window held no
// readings has no metrics at all.
type MealResultRow struct {
	// MealTime is the earliest food timestamp in the meal
	MealTime time.Time `parquet:"meal_time,snappy"`

	// Day is the meal's calendar day in YYYY-MM-DD form
	Day string `parquet:"day,snappy"`

	// Group is the meal group name
	Group string `parquet:"group,snappy"`

	// FoodCount is the number of food entries in the meal
	FoodCount int32 `parquet:"food_count,snappy"`

	// Foods is the comma-joined list of food names
	Foods string `parquet:"foods,snappy"`

	// Calories is the meal's total energy in kcal
	Calories float64 `parquet:"calories,snappy"`

	// ProteinG is the meal's total protein in grams
	ProteinG float64 `parquet:"protein_g,snappy"`

	// CarbsG is the meal's total net carbohydrate in grams
	CarbsG float64 `parquet:"carbs_g,snappy"`

	// FatG is the meal's total fat in grams
	FatG float64 `parquet:"fat_g,snappy"`

	// BaselineGlucose is the first reading in the response window (nullable)
	BaselineGlucose *float64 `parquet:"baseline_glucose,optional,snappy"`

	// PeakGlucose is the highest reading in the response window (nullable)
	PeakGlucose *float64 `parquet:"peak_glucose,optional,snappy"`

	// GlucoseRise is peak minus baseline (nullable)
	GlucoseRise *float64 `parquet:"glucose_rise,optional,snappy"`

	// TimeToPeakMinutes is the minutes from meal to peak (nullable)
	TimeToPeakMinutes *float64 `parquet:"time_to_peak_minutes,optional,snappy"`

	// MaxDropVelocity is the most negative smoothed velocity in the window (nullable)
	MaxDropVelocity *float64 `parquet:"max_drop_velocity,optional,snappy"`

	// TotalDrop is peak minus the post-peak nadir (nullable)
	TotalDrop *float64 `parquet:"total_drop,optional,snappy"`

	// ProteinCarbRatio is the meal's protein/carb ratio; +Inf for carb-free meals (nullable)
	ProteinCarbRatio *float64 `parquet:"protein_carb_ratio,optional,snappy"`

	// CrashDetected reports whether a crash overlapped the response window
	CrashDetected bool `parquet:"crash_detected,snappy"`

	// DataComplete reports whether the full response window had elapsed
	DataComplete bool `parquet:"data_complete,snappy"`

	// Label is the risk classification of the response
	Label string `parquet:"label,snappy"`
}

// WriteGlucoseReadings writes glucose readings to a Parquet file.
func WriteGlucoseReadings(readings []schema.GlucoseReading, outputPath string) error {
	return writeRows(ConvertGlucoseReadings(readings), outputPath)
}

// WriteFoodEntries writes food-log entries to a Parquet file.
func WriteFoodEntries(foods []schema.FoodEntry, outputPath string) error {
	return writeRows(ConvertFoodEntries(foods), outputPath)
}

// WriteCrashEvents writes crash events to a Parquet file.
func WriteCrashEvents(crashes []schema.CrashEvent, outputPath string) error {
	return writeRows(ConvertCrashEvents(crashes), outputPath)
}

// WriteMealResults writes meal response results to a Parquet file.
func WriteMealResults(meals []schema.MealResult, outputPath string) error {
	return writeRows(ConvertMealResults(meals), outputPath)
}

// writeRows writes a slice of row structs to a Parquet file.
func writeRows[T any](rows []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the row struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertGlucoseReadings converts schema.GlucoseReading to GlucoseReadingRow for Parquet export.
func ConvertGlucoseReadings(readings []schema.GlucoseReading) []GlucoseReadingRow {
	result := make([]GlucoseReadingRow, len(readings))
	for i, r := range readings {
		result[i] = GlucoseReadingRow{
			Timestamp:   r.Timestamp,
			GlucoseMgDl: r.GlucoseMgDl,
		}
	}
	return result
}

// ConvertFoodEntries converts schema.FoodEntry to FoodEntryRow for Parquet export.
func ConvertFoodEntries(foods []schema.FoodEntry) []FoodEntryRow {
	result := make([]FoodEntryRow, len(foods))
	for i, f := range foods {
		result[i] = FoodEntryRow{
			Timestamp: f.Timestamp,
			Day:       f.Day,
			FoodName:  f.FoodName,
			Group:     f.Group,
			Calories:  f.Calories,
			ProteinG:  f.ProteinG,
			CarbsG:    f.CarbsG,
			FatG:      f.FatG,
			FiberG:    f.FiberG,
			SugarG:    f.SugarG,
		}
	}
	return result
}

// ConvertCrashEvents converts schema.CrashEvent to CrashEventRow for Parquet export.
func ConvertCrashEvents(crashes []schema.CrashEvent) []CrashEventRow {
	result := make([]CrashEventRow, len(crashes))
	for i, c := range crashes {
		result[i] = CrashEventRow{
			StartTime:       c.StartTime,
			EndTime:         c.EndTime,
			StartGlucose:    c.StartGlucose,
			EndGlucose:      c.EndGlucose,
			DropMagnitude:   c.DropMagnitude,
			AverageVelocity: c.AverageVelocity,
			MaxVelocity:     c.MaxVelocity,
			DurationMinutes: c.DurationMinutes,
			Label:           schema.GetCrashLabel(c.MaxVelocity),
		}
	}
	return result
}

// ConvertMealResults converts schema.MealResult to MealResultRow for Parquet export.
func ConvertMealResults(meals []schema.MealResult) []MealResultRow {
	result := make([]MealResultRow, len(meals))
	for i := range meals {
		m := &meals[i]
		row := MealResultRow{
			MealTime:      m.MealTime,
			Day:           m.Day,
			Group:         m.Group,
			FoodCount:     int32(m.FoodCount),
			Foods:         schema.FormatFoods(m.Foods, 0),
			Calories:      m.Calories,
			ProteinG:      m.ProteinG,
			CarbsG:        m.CarbsG,
			FatG:          m.FatG,
			CrashDetected: m.HasMetrics && m.Metrics.CrashDetected,
			DataComplete:  m.DataComplete,
			Label:         string(schema.ClassifyResponse(m)),
		}
		if m.HasMetrics {
			metrics := m.Metrics
			ratio := float64(metrics.ProteinCarbRatio)
			row.BaselineGlucose = &metrics.BaselineGlucose
			row.PeakGlucose = &metrics.PeakGlucose
			row.GlucoseRise = &metrics.GlucoseRise
			row.TimeToPeakMinutes = &metrics.TimeToPeakMinutes
			row.MaxDropVelocity = &metrics.MaxDropVelocity
			row.TotalDrop = &metrics.TotalDrop
			row.ProteinCarbRatio = &ratio
		}
		result[i] = row
	}
	return result
}
