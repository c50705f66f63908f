package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// tableTimeFormat is the compact timestamp format used in table cells.
const tableTimeFormat = "2006-01-02 15:04"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// fmtOptional formats a nullable metric, rendering missing values as "-".
func fmtOptional(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// riskLabel returns the meal risk label, colored when the config asks for it.
func riskLabel(r *schema.MealResult, useColors bool) string {
	level := schema.ClassifyResponse(r)
	if useColors {
		return contract.GetRiskColorLabel(level)
	}
	return string(level)
}

// crashLabel returns the crash severity label, colored when the config asks for it.
func crashLabel(maxVelocity float64, useColors bool) string {
	if useColors {
		return contract.GetCrashColorLabel(maxVelocity)
	}
	return schema.GetCrashLabel(maxVelocity)
}

// parquetPathError rejects parquet output without a target file since the
// binary format is useless on a terminal.
func parquetPathError(outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}
