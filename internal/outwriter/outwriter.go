// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/mlevkov/glucodip/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each analysis phase.
func LogAnalysisHeader(cfg *contract.Config) {
	source := headerSource(cfg)

	if cfg.UseEmojis {
		// Line 1: The input source being analyzed
		fmt.Printf("🩸 Source: %s\n", source)
		// Line 2: The actual date range being analyzed
		fmt.Printf("📅 Range: %s → %s\n", cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
		return
	}
	fmt.Printf("Source: %s\n", source)
	fmt.Printf("Range: %s → %s\n", cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
}

// headerSource describes where the inputs come from: explicit files, a data
// directory, or the store.
func headerSource(cfg *contract.Config) string {
	switch {
	case cfg.GlucoseFile != "" && cfg.FoodFile != "":
		return fmt.Sprintf("%s, %s", cfg.GlucoseFile, cfg.FoodFile)
	case cfg.GlucoseFile != "":
		return cfg.GlucoseFile
	case cfg.FoodFile != "":
		return cfg.FoodFile
	case cfg.DataDir != "":
		return cfg.DataDir
	default:
		return fmt.Sprintf("store (%s)", cfg.StoreBackend)
	}
}

// GetMaxTableFoodsWidth calculates the maximum width for food lists in table
// output based on terminal width and table configuration.
func GetMaxTableFoodsWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with table formatting:
	// Rank + Time + Group + Carbs + Protein + Rise + Drop + Label
	baseWidth := 85

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	// Calculate available space for the food list
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable food list width
		return 15
	}
	if available > 60 {
		// Maximum width to keep rows scannable
		return 60
	}
	return available
}
