package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// PrintAssessmentResults renders one AI narrative. The cached flag marks
// narratives served from the assessment store rather than generated now.
func PrintAssessmentResults(a schema.Assessment, cached bool, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, a)
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut, schema.ParquetOut:
		return fmt.Errorf("%s output is not supported for assessments; use text or json", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAssessmentText(w, a, cached, duration)
		}, "Wrote assessment")
	}
	return nil
}

// writeAssessmentText writes the narrative with its provenance block.
func writeAssessmentText(w io.Writer, a schema.Assessment, cached bool, duration time.Duration) error {
	heading := "AI Assessment:"
	if cached {
		heading = "AI Assessment (cached):"
	}
	if _, err := fmt.Fprintln(w, heading); err != nil {
		return err
	}

	labels := []string{"Subject:", "Model:", "Created:"}
	values := []any{a.MealKey, a.Model, a.CreatedAt.Format(tableTimeFormat)}
	if err := writeLabeledBlock(w, labels, values); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n\n", a.Text); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Assessment completed in %v.\n", duration)
	return err
}
