package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// PrintTriggerResults outputs the ranked food triggers, dispatching on
// the output format configured.
func PrintTriggerResults(triggers []schema.FoodTrigger, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTriggerJSON(w, triggers)
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeTriggerCSV(csvWriter, triggers, fmtFloat)
		}, "Wrote CSV")
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for triggers; use csv or json")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTriggerTable(w, triggers, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeTriggerTable generates and writes the human-readable table.
func writeTriggerTable(writer io.Writer, triggers []schema.FoodTrigger, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	foodWidth := GetMaxTableFoodsWidth(cfg)
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Food", "Crashes", "Avg Velocity"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, trig := range triggers {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(trig.FoodName, foodWidth),
			strconv.Itoa(trig.CrashCount),
			fmtFloat(trig.AvgVelocity),
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
	_, err := fmt.Fprintf(writer, "Showing %d food triggers. Analysis completed in %v using %d workers.\n",
		len(triggers), duration, cfg.Workers)
	return err
}

// writeTriggerJSON writes the triggers under a top-level key.
func writeTriggerJSON(w io.Writer, triggers []schema.FoodTrigger) error {
	doc := struct {
		Triggers []schema.FoodTrigger `json:"triggers"`
	}{Triggers: triggers}
	return writeJSON(w, doc)
}

// writeTriggerCSV writes the triggers in CSV form.
func writeTriggerCSV(w *csv.Writer, triggers []schema.FoodTrigger, fmtFloat func(float64) string) error {
	header := []string{"rank", "food_name", "crash_count", "avg_velocity"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, trig := range triggers {
		rec := []string{
			strconv.Itoa(i + 1),
			trig.FoodName,
			strconv.Itoa(trig.CrashCount),
			fmtFloat(trig.AvgVelocity),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
