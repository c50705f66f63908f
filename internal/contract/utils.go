package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mlevkov/glucodip/schema"
)

// Color variables for console output.
var (
	CrashColor    = color.New(color.FgRed, color.Bold)     // crashColor represents a confirmed reactive crash.
	FastDropColor = color.New(color.FgMagenta, color.Bold) // fastDropColor represents a strong, distinct warning.
	SpikeColor    = color.New(color.FgYellow)              // spikeColor represents standard caution, not bold.
	GoodColor     = color.New(color.FgGreen)               // goodColor represents an uneventful response.
	PendingColor  = color.New(color.FgCyan)                // pendingColor represents incomplete data states.
)

// GetRiskColorLabel returns a colored text label for console output (table).
// The plain string comes from schema.ClassifyResponse; this only applies color.
func GetRiskColorLabel(level schema.RiskLevel) string {
	text := string(level)

	switch level {
	case schema.CrashLevel:
		return CrashColor.Sprint(text)
	case schema.FastDropLevel:
		return FastDropColor.Sprint(text)
	case schema.SpikeLevel:
		return SpikeColor.Sprint(text)
	case schema.GoodLevel:
		return GoodColor.Sprint(text)
	default: // Partial, Awaiting Data
		return PendingColor.Sprint(text)
	}
}

// GetCrashColorLabel returns a colored severity label for console output.
// It uses schema.GetCrashLabel to determine the string, and then applies the
// appropriate color.
func GetCrashColorLabel(maxVelocity float64) string {
	text := schema.GetCrashLabel(maxVelocity)

	switch text {
	case schema.SevereLabel:
		return CrashColor.Sprint(text)
	case schema.HighLabel:
		return FastDropColor.Sprint(text)
	case schema.ModerateLabel:
		return SpikeColor.Sprint(text)
	default: // "Mild"
		return PendingColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for data storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".glucodip.db"
	}
	return filepath.Join(homeDir, ".glucodip.db")
}

// TruncateText truncates a string to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both content and the "..."
// suffix. Food lists keep their head since the leading items matter most.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
