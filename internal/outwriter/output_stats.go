package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// PrintStatsResults outputs the glucose overview and crash summary,
// dispatching on the output format configured.
func PrintStatsResults(stats schema.StatsBundle, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeStatsCSV(csvWriter, stats, fmtFloat)
		}, "Wrote CSV")
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for stats; use csv or json")
	default:
		// Default to human-readable text
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsText(w, stats, cfg, fmtFloat, duration)
		}, "Wrote stats")
	}
	return nil
}

// writeStatsText writes the two labeled stat blocks.
func writeStatsText(writer io.Writer, stats schema.StatsBundle, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	o := stats.Overview
	c := stats.Crashes

	if _, err := fmt.Fprintln(writer, "Glucose Overview:"); err != nil {
		return err
	}
	overviewLabels := []string{
		"Readings:",
		"Period:",
		"Average:",
		"Std Dev:",
		"CV:",
		"GMI:",
		"Time in Range:",
		"Time Below:",
		"Time Above:",
	}
	overviewValues := []any{
		o.TotalReadings,
		fmt.Sprintf("%s → %s", o.FirstReading.Format(tableTimeFormat), o.LastReading.Format(tableTimeFormat)),
		fmtFloat(o.AverageGlucose) + " mg/dL",
		fmtFloat(o.StdDev) + " mg/dL",
		fmtFloat(o.CoefficientOfVariation) + "%",
		fmtFloat(o.GMI) + "%",
		fmt.Sprintf("%s%% (%.0f-%.0f mg/dL)", fmtFloat(o.TimeInRangePct), schema.RangeLowMgDl, schema.RangeHighMgDl),
		fmtFloat(o.TimeBelowPct) + "%",
		fmtFloat(o.TimeAbovePct) + "%",
	}
	if err := writeLabeledBlock(writer, overviewLabels, overviewValues); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(writer, "Crash Summary:"); err != nil {
		return err
	}
	crashLabels := []string{
		"Crashes:",
		"Avg Drop:",
		"Max Drop:",
		"Avg Duration:",
		"Avg Velocity:",
		"Worst Velocity:",
	}
	crashValues := []any{
		c.TotalCrashes,
		fmtFloat(c.AvgDropMagnitude) + " mg/dL",
		fmtFloat(c.MaxDropMagnitude) + " mg/dL",
		fmtFloat(c.AvgDurationMinutes) + " min",
		fmtFloat(c.AvgVelocity) + " mg/dL/min",
		fmtFloat(c.WorstVelocity) + " mg/dL/min",
	}
	if err := writeLabeledBlock(writer, crashLabels, crashValues); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Analysis completed in %v using %d workers.\n", duration, cfg.Workers)
	return err
}

// writeLabeledBlock prints label-value pairs with consistent padding.
func writeLabeledBlock(writer io.Writer, labels []string, values []any) error {
	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		if _, err := fmt.Fprintf(writer, "  %-*s %v\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(writer)
	return err
}

// writeStatsCSV writes the stats as metric,value rows.
func writeStatsCSV(w *csv.Writer, stats schema.StatsBundle, fmtFloat func(float64) string) error {
	if err := w.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	o := stats.Overview
	c := stats.Crashes
	rows := [][]string{
		{"total_readings", strconv.Itoa(o.TotalReadings)},
		{"first_reading", o.FirstReading.Format(contract.DateTimeFormat)},
		{"last_reading", o.LastReading.Format(contract.DateTimeFormat)},
		{"average_glucose", fmtFloat(o.AverageGlucose)},
		{"std_dev", fmtFloat(o.StdDev)},
		{"coefficient_of_variation", fmtFloat(o.CoefficientOfVariation)},
		{"gmi", fmtFloat(o.GMI)},
		{"time_in_range_pct", fmtFloat(o.TimeInRangePct)},
		{"time_below_pct", fmtFloat(o.TimeBelowPct)},
		{"time_above_pct", fmtFloat(o.TimeAbovePct)},
		{"total_crashes", strconv.Itoa(c.TotalCrashes)},
		{"avg_drop_magnitude", fmtFloat(c.AvgDropMagnitude)},
		{"max_drop_magnitude", fmtFloat(c.MaxDropMagnitude)},
		{"avg_duration_min", fmtFloat(c.AvgDurationMinutes)},
		{"avg_velocity", fmtFloat(c.AvgVelocity)},
		{"worst_velocity", fmtFloat(c.WorstVelocity)},
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
