package outwriter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

func sampleReport() schema.DoctorReport {
	return schema.DoctorReport{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		Stats: schema.StatsBundle{
			Overview: schema.GlucoseOverview{
				TotalReadings:  8640,
				AverageGlucose: 108.3,
				TimeInRangePct: 74.5,
				GMI:            5.9,
			},
			Crashes: schema.CrashSummary{
				TotalCrashes:       9,
				AvgDropMagnitude:   41.7,
				MaxDropMagnitude:   68.0,
				AvgDurationMinutes: 35.0,
				AvgVelocity:        -2.2,
				WorstVelocity:      -3.8,
			},
		},
		TopTriggers: []schema.FoodTrigger{
			{FoodName: "White Rice", CrashCount: 4, AvgVelocity: -2.9},
			{FoodName: "Orange Juice", CrashCount: 3, AvgVelocity: -2.6},
		},
		TopCrashes: []schema.CrashEvent{
			{
				StartTime:       time.Date(2024, 1, 5, 14, 10, 0, 0, time.UTC),
				EndTime:         time.Date(2024, 1, 5, 14, 40, 0, 0, time.UTC),
				StartGlucose:    152,
				EndGlucose:      84,
				DropMagnitude:   68,
				MaxVelocity:     -3.8,
				DurationMinutes: 30,
			},
			{
				StartTime:       time.Date(2024, 1, 12, 19, 0, 0, 0, time.UTC),
				EndTime:         time.Date(2024, 1, 12, 19, 25, 0, 0, time.UTC),
				StartGlucose:    140,
				EndGlucose:      96,
				DropMagnitude:   44,
				MaxVelocity:     -2.4,
				DurationMinutes: 25,
			},
		},
		MealDigest: schema.MealDigest{
			TotalMeals: 52,
			LabelCounts: map[schema.RiskLevel]int{
				schema.CrashLevel: 9,
				schema.GoodLevel:  38,
				schema.SpikeLevel: 5,
			},
		},
	}
}

func TestWriteReportText(t *testing.T) {
	report := sampleReport()
	fmtFloat, _ := createFormatters(1)

	cfg := &contract.Config{
		Output:       schema.TextOut,
		ReportFormat: schema.TextReport,
		Precision:    1,
		Workers:      4,
	}

	var buf bytes.Buffer
	err := writeReportText(&buf, report, cfg, fmtFloat, 55*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "CGM Food Response Assessment Report")
	assert.Contains(t, output, "Generated: 2024-02-01 09:30")
	assert.Contains(t, output, "2024-01-01 → 2024-01-31")
	assert.Contains(t, output, "the patient experienced 9 reactive hypoglycemia events")
	assert.Contains(t, output, "Total Crash Events:")
	// Worst velocity renders as a positive magnitude
	assert.Contains(t, output, "3.8 mg/dL/min")
	assert.NotContains(t, output, "-3.8 mg/dL/min")
	assert.Contains(t, output, "74.5% (70-180 mg/dL)")

	assert.Contains(t, output, "Primary Food Triggers:")
	assert.Contains(t, output, "1. White Rice - 4 crashes, avg velocity: 2.90 mg/dL/min")
	assert.Contains(t, output, "2. Orange Juice - 3 crashes, avg velocity: 2.60 mg/dL/min")

	assert.Contains(t, output, "Crash Event Details:")
	assert.Contains(t, output, "2024-01-05 14:10")
	assert.Contains(t, output, "152 → 84")

	assert.Contains(t, output, "Meal Responses:")
	assert.Contains(t, output, "Meals analyzed: 52")
	assert.Contains(t, output, "Crash: 9")
	assert.Contains(t, output, "Good: 38")

	assert.Contains(t, output, "Pattern Analysis:")
	assert.Contains(t, output, "reactive hypoglycemia if crash events are frequent")
	assert.Contains(t, output, "supplement, not replace, clinical judgment")
	assert.Contains(t, output, "Report generated in 55ms using 4 workers")
}

func TestWriteReportTextRiskOrder(t *testing.T) {
	report := sampleReport()
	fmtFloat, _ := createFormatters(1)
	cfg := &contract.Config{Precision: 1, Workers: 1}

	var buf bytes.Buffer
	err := writeReportText(&buf, report, cfg, fmtFloat, time.Millisecond)
	require.NoError(t, err)

	// Worst labels come first in the digest
	output := buf.String()
	crashIdx := bytes.Index(buf.Bytes(), []byte("Crash: 9"))
	spikeIdx := bytes.Index(buf.Bytes(), []byte("High Spike: 5"))
	goodIdx := bytes.Index(buf.Bytes(), []byte("Good: 38"))
	require.Positive(t, crashIdx, output)
	require.Positive(t, spikeIdx, output)
	require.Positive(t, goodIdx, output)
	assert.Less(t, crashIdx, spikeIdx)
	assert.Less(t, spikeIdx, goodIdx)
}

func TestWriteReportTextNoCrashes(t *testing.T) {
	report := sampleReport()
	report.TopCrashes = nil
	report.TopTriggers = nil
	report.Stats.Crashes = schema.CrashSummary{}
	fmtFloat, _ := createFormatters(1)
	cfg := &contract.Config{Precision: 1, Workers: 1}

	var buf bytes.Buffer
	err := writeReportText(&buf, report, cfg, fmtFloat, time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "the patient experienced 0 reactive hypoglycemia events")
	assert.Contains(t, output, "No crash events in the reporting period")
	assert.NotContains(t, output, "Primary Food Triggers:")
}

func TestWriteReportMarkdown(t *testing.T) {
	report := sampleReport()
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	err := writeReportMarkdown(&buf, report, fmtFloat)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "# CGM Food Response Assessment Report")
	assert.Contains(t, output, "## Executive Summary")
	assert.Contains(t, output, "## Primary Food Triggers")
	assert.Contains(t, output, "1. White Rice - 4 crashes, avg velocity: 2.90 mg/dL/min")
	assert.Contains(t, output, "## Crash Event Details")
	assert.Contains(t, output, "| Time | Duration (min) | Drop (mg/dL) | Velocity (mg/dL/min) | Glucose |")
	assert.Contains(t, output, "| 2024-01-05 14:10 | 30 | 68.0 | 3.80 | 152 → 84 |")
	assert.Contains(t, output, "## Pattern Analysis")
	assert.Contains(t, output, "*Disclaimer:")
}

func TestPrintReportResultsJSON(t *testing.T) {
	report := sampleReport()
	cfg := &contract.Config{
		Output:    schema.JSONOut,
		Precision: 1,
	}

	// No output file set, so JSON goes to stdout; just assert no error
	err := PrintReportResults(report, cfg, time.Millisecond)
	require.NoError(t, err)
}

func TestPrintReportResultsCSVUnsupported(t *testing.T) {
	report := sampleReport()
	cfg := &contract.Config{
		Output:    schema.CSVOut,
		Precision: 1,
	}

	err := PrintReportResults(report, cfg, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}
