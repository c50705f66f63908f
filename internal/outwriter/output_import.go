package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// PrintImportResults outputs what one import run accomplished.
func PrintImportResults(summary schema.ImportSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut, schema.ParquetOut:
		return fmt.Errorf("%s output is not supported for imports; use text or json", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeImportText(w, summary, duration)
		}, "Wrote summary")
	}
	return nil
}

// writeImportText writes the labeled import summary block.
func writeImportText(w io.Writer, summary schema.ImportSummary, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, "Import Summary:"); err != nil {
		return err
	}

	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	labels := []string{
		"Run ID:",
		"Glucose File:",
		"Food File:",
		"Readings Stored:",
		"Foods Stored:",
		"New Crashes:",
		"Skipped Files:",
	}
	values := []any{
		summary.RunID,
		orDash(summary.GlucoseFile),
		orDash(summary.FoodFile),
		summary.ReadingsStored,
		summary.FoodsStored,
		summary.CrashesStored,
		summary.SkippedFiles,
	}
	if err := writeLabeledBlock(w, labels, values); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Import completed in %v.\n", duration)
	return err
}
