package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/parquet"
	"github.com/mlevkov/glucodip/schema"
)

// PrintCrashResults outputs ranked crash events, dispatching on the output
// format configured. The summary rides along in every format.
func PrintCrashResults(crashes []schema.CrashEvent, summary schema.CrashSummary, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCrashJSON(w, crashes, summary)
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCrashCSV(csvWriter, crashes, fmtFloat)
		}, "Wrote CSV")
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquetPathError(cfg.OutputFile); err != nil {
			return err
		}
		if err := parquet.WriteCrashEvents(crashes, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCrashTable(w, crashes, summary, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCrashTable generates and writes the human-readable table.
func writeCrashTable(writer io.Writer, crashes []schema.CrashEvent, summary schema.CrashSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Start", "Dur(min)", "Glucose", "Drop", "Avg Vel", "Max Vel", "Label"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, c := range crashes {
		row := []string{
			strconv.Itoa(i + 1),
			c.StartTime.Format(tableTimeFormat),
			fmtFloat(c.DurationMinutes),
			fmt.Sprintf("%.0f → %.0f", c.StartGlucose, c.EndGlucose),
			fmtFloat(c.DropMagnitude),
			fmtFloat(c.AverageVelocity),
			fmtFloat(c.MaxVelocity),
			crashLabel(c.MaxVelocity, cfg.UseColors),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Summary footer
	if _, err := fmt.Fprintf(writer, "Showing %d of %d crashes (avg drop: %s mg/dL, avg duration: %s min, worst velocity: %s mg/dL/min)\n",
		len(crashes), summary.TotalCrashes, fmtFloat(summary.AvgDropMagnitude), fmtFloat(summary.AvgDurationMinutes), fmtFloat(summary.WorstVelocity)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v using %d workers.\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCrashCSV writes the crash events in CSV format.
func writeCrashCSV(w *csv.Writer, crashes []schema.CrashEvent, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"start_time",
		"end_time",
		"duration_min",
		"start_glucose",
		"end_glucose",
		"drop_magnitude",
		"avg_velocity",
		"max_velocity",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, c := range crashes {
		rec := []string{
			strconv.Itoa(i + 1),
			c.StartTime.Format(contract.DateTimeFormat),
			c.EndTime.Format(contract.DateTimeFormat),
			fmtFloat(c.DurationMinutes),
			fmtFloat(c.StartGlucose),
			fmtFloat(c.EndGlucose),
			fmtFloat(c.DropMagnitude),
			fmtFloat(c.AverageVelocity),
			fmtFloat(c.MaxVelocity),
			schema.GetCrashLabel(c.MaxVelocity),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeCrashJSON writes the crash events plus summary in JSON format.
func writeCrashJSON(w io.Writer, crashes []schema.CrashEvent, summary schema.CrashSummary) error {
	doc := struct {
		Crashes []schema.EnrichedCrashEvent `json:"crashes"`
		Summary schema.CrashSummary         `json:"summary"`
	}{
		Crashes: schema.EnrichCrashes(crashes),
		Summary: summary,
	}
	return writeJSON(w, doc)
}
