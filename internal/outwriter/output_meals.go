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

// maxFoodsPerCell caps how many food names show in one table cell.
const maxFoodsPerCell = 3

// PrintMealResults outputs per-meal response results, dispatching on the
// output format configured.
func PrintMealResults(meals []schema.MealResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichMeals(meals))
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeMealCSV(csvWriter, meals, fmtFloat)
		}, "Wrote CSV")
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquetPathError(cfg.OutputFile); err != nil {
			return err
		}
		if err := parquet.WriteMealResults(meals, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMealTable(w, meals, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeMealTable generates and writes the human-readable table.
func writeMealTable(writer io.Writer, meals []schema.MealResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Time", "Group", "Foods", "Carbs", "Protein", "Rise", "Drop", "Label"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	foodsWidth := GetMaxTableFoodsWidth(cfg)
	var data [][]string
	for i, m := range meals {
		rise, drop := "-", "-"
		if m.HasMetrics {
			rise = fmtFloat(m.Metrics.GlucoseRise)
			drop = fmtFloat(m.Metrics.TotalDrop)
		}
		row := []string{
			strconv.Itoa(i + 1),
			m.MealTime.Format(tableTimeFormat),
			m.Group,
			contract.TruncateText(schema.FormatFoods(m.Foods, maxFoodsPerCell), foodsWidth),
			fmtFloat(m.CarbsG),
			fmtFloat(m.ProteinG),
			rise,
			drop,
			riskLabel(&m, cfg.UseColors),
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
	pending := 0
	for i := range meals {
		if !meals[i].DataComplete {
			pending++
		}
	}
	if pending > 0 {
		if _, err := fmt.Fprintf(writer, "%d meal(s) still awaiting sensor data\n", pending); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d meals. Analysis completed in %v using %d workers.\n", len(meals), duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeMealCSV writes the meal results in CSV format.
func writeMealCSV(w *csv.Writer, meals []schema.MealResult, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"meal_time",
		"day",
		"group",
		"food_count",
		"foods",
		"calories",
		"protein_g",
		"carbs_g",
		"fat_g",
		"baseline",
		"peak",
		"rise",
		"time_to_peak_min",
		"max_drop_velocity",
		"total_drop",
		"crash_detected",
		"protein_carb_ratio",
		"data_complete",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, m := range meals {
		baseline, peak, rise, timeToPeak, maxDrop, totalDrop, ratio := "-", "-", "-", "-", "-", "-", "-"
		if m.HasMetrics {
			baseline = fmtFloat(m.Metrics.BaselineGlucose)
			peak = fmtFloat(m.Metrics.PeakGlucose)
			rise = fmtFloat(m.Metrics.GlucoseRise)
			timeToPeak = fmtFloat(m.Metrics.TimeToPeakMinutes)
			maxDrop = fmtFloat(m.Metrics.MaxDropVelocity)
			totalDrop = fmtFloat(m.Metrics.TotalDrop)
			ratio = fmtFloat(float64(m.Metrics.ProteinCarbRatio))
		}
		rec := []string{
			strconv.Itoa(i + 1),
			m.MealTime.Format(contract.DateTimeFormat),
			m.Day,
			m.Group,
			strconv.Itoa(m.FoodCount),
			schema.FormatFoods(m.Foods, 0),
			fmtFloat(m.Calories),
			fmtFloat(m.ProteinG),
			fmtFloat(m.CarbsG),
			fmtFloat(m.FatG),
			baseline,
			peak,
			rise,
			timeToPeak,
			maxDrop,
			totalDrop,
			strconv.FormatBool(m.Metrics.CrashDetected),
			ratio,
			strconv.FormatBool(m.DataComplete),
			string(schema.ClassifyResponse(&m)),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
