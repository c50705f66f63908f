package datastore

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/parquet"
	"github.com/mlevkov/glucodip/schema"
)

// ExecuteStoreExport dumps the stored glucose, food and crash tables to
// per-table files named after outputFile. The file format follows the
// configured output mode; text mode exports parquet since rendered tables
// make poor archives.
func ExecuteStoreExport(cfg *contract.Config, mgr contract.StoreManager) error {
	// Validate that output file is specified
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	readingStore := mgr.GetReadingStore()
	foodStore := mgr.GetFoodStore()
	crashStore := mgr.GetCrashStore()
	if readingStore == nil || foodStore == nil || crashStore == nil {
		return fmt.Errorf("%w: export needs a persistent store, configure --store-backend", contract.ErrStoreDisabled)
	}

	// Check if there's any data to export
	status, err := mgr.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	total := status.TableCounts[readingsTable] + status.TableCounts[foodsTable] + status.TableCounts[crashesTable]
	if total == 0 {
		return errors.New("no stored data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Glucose readings: %d\n", status.TableCounts[readingsTable])
	fmt.Printf("Food entries: %d\n", status.TableCounts[foodsTable])
	fmt.Printf("Crash events: %d\n", status.TableCounts[crashesTable])

	// The store query interface is range based, so the export uses a range
	// no CGM data can fall outside of.
	start := time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Now().AddDate(1, 0, 0)

	readings, err := readingStore.GetReadings(start, end)
	if err != nil {
		return fmt.Errorf("failed to retrieve glucose readings: %w", err)
	}
	foods, err := foodStore.GetFoods(start, end)
	if err != nil {
		return fmt.Errorf("failed to retrieve food entries: %w", err)
	}
	crashes, err := crashStore.GetCrashes(start, end)
	if err != nil {
		return fmt.Errorf("failed to retrieve crash events: %w", err)
	}

	if err := exportReadings(readings, cfg.OutputFile, cfg.Output); err != nil {
		return err
	}
	if err := exportFoods(foods, cfg.OutputFile, cfg.Output); err != nil {
		return err
	}
	if err := exportCrashes(crashes, cfg.OutputFile, cfg.Output); err != nil {
		return err
	}

	fmt.Println("\nExport complete! The exported files can be used with:")
	fmt.Println("  - Pandas")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other tool that reads the chosen format")

	return nil
}

func exportReadings(readings []schema.GlucoseReading, base string, format schema.OutputMode) error {
	path := tablePath(base, readingsTable, format)
	var err error
	switch format {
	case schema.JSONOut:
		err = writeJSONFile(path, readings)
	case schema.CSVOut:
		header := []string{"timestamp", "glucose_mg_dl"}
		rows := make([][]string, len(readings))
		for i, r := range readings {
			rows[i] = []string{r.Timestamp.Format(contract.DateTimeFormat), formatExportFloat(r.GlucoseMgDl)}
		}
		err = writeCSVFile(path, header, rows)
	default:
		err = parquet.WriteGlucoseReadings(readings, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write glucose readings: %w", err)
	}
	fmt.Printf("Exported %d glucose readings to: %s\n", len(readings), path)
	return nil
}

func exportFoods(foods []schema.FoodEntry, base string, format schema.OutputMode) error {
	path := tablePath(base, foodsTable, format)
	var err error
	switch format {
	case schema.JSONOut:
		err = writeJSONFile(path, foods)
	case schema.CSVOut:
		header := []string{"timestamp", "day", "food_name", "group", "calories", "protein_g", "carbs_g", "fat_g", "fiber_g", "sugar_g"}
		rows := make([][]string, len(foods))
		for i, f := range foods {
			rows[i] = []string{
				f.Timestamp.Format(contract.DateTimeFormat), f.Day, f.FoodName, f.Group,
				formatExportFloat(f.Calories), formatExportFloat(f.ProteinG), formatExportFloat(f.CarbsG),
				formatExportFloat(f.FatG), formatExportFloat(f.FiberG), formatExportFloat(f.SugarG),
			}
		}
		err = writeCSVFile(path, header, rows)
	default:
		err = parquet.WriteFoodEntries(foods, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write food entries: %w", err)
	}
	fmt.Printf("Exported %d food entries to: %s\n", len(foods), path)
	return nil
}

func exportCrashes(crashes []schema.CrashEvent, base string, format schema.OutputMode) error {
	path := tablePath(base, crashesTable, format)
	var err error
	switch format {
	case schema.JSONOut:
		err = writeJSONFile(path, crashes)
	case schema.CSVOut:
		header := []string{"start_time", "end_time", "start_glucose", "end_glucose", "drop_magnitude", "average_velocity", "max_velocity", "duration_minutes"}
		rows := make([][]string, len(crashes))
		for i, c := range crashes {
			rows[i] = []string{
				c.StartTime.Format(contract.DateTimeFormat), c.EndTime.Format(contract.DateTimeFormat),
				formatExportFloat(c.StartGlucose), formatExportFloat(c.EndGlucose), formatExportFloat(c.DropMagnitude),
				formatExportFloat(c.AverageVelocity), formatExportFloat(c.MaxVelocity), formatExportFloat(c.DurationMinutes),
			}
		}
		err = writeCSVFile(path, header, rows)
	default:
		err = parquet.WriteCrashEvents(crashes, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write crash events: %w", err)
	}
	fmt.Printf("Exported %d crash events to: %s\n", len(crashes), path)
	return nil
}

// tablePath builds "<base>.<table>.<ext>" so one export run names all of its
// files consistently.
func tablePath(base, table string, format schema.OutputMode) string {
	ext := "parquet"
	switch format {
	case schema.JSONOut:
		ext = "json"
	case schema.CSVOut:
		ext = "csv"
	}
	return base + "." + table + "." + ext
}

// formatExportFloat keeps full precision; exports are archives, not reports.
func formatExportFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSONFile(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
